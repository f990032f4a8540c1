package pictures

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/concert-capstone/internal/models"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestNewStoreDropsRepeatedIDs(t *testing.T) {
	s := NewStore([]models.Picture{{ID: 1, EventCity: "a"}, {ID: 1, EventCity: "b"}, {ID: 2}})

	assert.Equal(t, 2, s.Count())
	p, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "a", p.EventCity)
}

func TestStoreCreateDuplicate(t *testing.T) {
	s := NewStore(nil)
	require.NoError(t, s.Create(models.Picture{ID: 5, EventCity: "first"}))

	err := s.Create(models.Picture{ID: 5, EventCity: "second"})
	assert.ErrorIs(t, err, ErrDuplicate)

	p, err := s.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "first", p.EventCity)
}

func TestStoreUpdateKeepsID(t *testing.T) {
	s := NewStore([]models.Picture{{ID: 3, EventCity: "old", EventState: "st"}})

	p, err := s.Update(3, models.PictureFields{ID: intp(99), EventCity: strp("new")})
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, "new", p.EventCity)
	assert.Equal(t, "st", p.EventState)

	_, err = s.Update(4, models.PictureFields{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	s := NewStore([]models.Picture{{ID: 1}, {ID: 2}, {ID: 3}})

	require.NoError(t, s.Delete(2))
	assert.ErrorIs(t, s.Delete(2), ErrNotFound)

	ids := []int{}
	for _, p := range s.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
}

func TestStoreListIsSnapshot(t *testing.T) {
	s := NewStore([]models.Picture{{ID: 1, EventCity: "a"}})

	list := s.List()
	list[0].EventCity = "changed"

	p, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "a", p.EventCity)
}

func TestStoreConcurrentCreateSameID(t *testing.T) {
	s := NewStore(nil)

	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Create(models.Picture{ID: 7}) == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.Equal(t, 1, s.Count())
}
