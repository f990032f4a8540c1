package songs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ayush/concert-capstone/internal/models"
)

//go:embed data/songs.json
var bundledSongs []byte

// LoadSeed returns the initial song list. An empty path selects the bundled
// list.
func LoadSeed(path string) ([]models.Song, error) {
	data := bundledSongs
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read songs seed: %w", err)
		}
		data = b
	}

	var songs []models.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("decode songs seed: %w", err)
	}
	return songs, nil
}
