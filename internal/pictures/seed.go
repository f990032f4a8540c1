package pictures

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/models"
)

//go:embed data/pictures.json
var bundledPictures []byte

// Downloader fetches an object's bytes by key.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// SeedSource names where the initial picture list comes from. Empty fields
// are skipped.
type SeedSource struct {
	Objects Downloader
	Object  string
	File    string
}

// LoadSeed tries the object store, then the file, then the bundled list. A
// source that cannot be read or decoded is logged and skipped.
func LoadSeed(ctx context.Context, src SeedSource) ([]models.Picture, error) {
	if src.Objects != nil && src.Object != "" {
		data, err := src.Objects.Download(ctx, src.Object)
		if err == nil {
			pics, err := decode(data)
			if err == nil {
				log.Info().Str("object", src.Object).Int("pictures", len(pics)).Msg("pictures loaded from object store")
				return pics, nil
			}
			log.Warn().Err(err).Str("object", src.Object).Msg("pictures seed object unreadable")
		} else {
			log.Warn().Err(err).Str("object", src.Object).Msg("pictures seed object unavailable")
		}
	}

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err == nil {
			pics, err := decode(data)
			if err == nil {
				log.Info().Str("file", src.File).Int("pictures", len(pics)).Msg("pictures loaded from file")
				return pics, nil
			}
			log.Warn().Err(err).Str("file", src.File).Msg("pictures seed file unreadable")
		} else {
			log.Warn().Err(err).Str("file", src.File).Msg("pictures seed file unavailable")
		}
	}

	pics, err := decode(bundledPictures)
	if err != nil {
		return nil, fmt.Errorf("bundled pictures: %w", err)
	}
	return pics, nil
}

func decode(data []byte) ([]models.Picture, error) {
	var pics []models.Picture
	if err := json.Unmarshal(data, &pics); err != nil {
		return nil, fmt.Errorf("decode pictures: %w", err)
	}
	return pics, nil
}
