package geocoding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/servicespot/servicespot/internal/geo"
)

func delhiLocation() geo.Location {
	return geo.Location{
		Coordinate: geo.Coordinate{Latitude: 28.6448, Longitude: 77.2167},
		Name:       "New Delhi, Delhi, India",
	}
}

func TestPincodeCache_GetMiss(t *testing.T) {
	cache := NewPincodeCache()

	_, ok := cache.Get(110001)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())
}

func TestPincodeCache_PutGet(t *testing.T) {
	cache := NewPincodeCache()
	loc := delhiLocation()

	cache.Put(110001, loc)

	got, ok := cache.Get(110001)
	assert.True(t, ok)
	assert.Equal(t, loc, got)
	assert.Equal(t, 1, cache.Size())
}

func TestPincodeCache_PutOverwrites(t *testing.T) {
	cache := NewPincodeCache()
	cache.Put(110001, delhiLocation())

	updated := geo.Location{
		Coordinate: geo.Coordinate{Latitude: 28.65, Longitude: 77.22},
		Name:       "Connaught Place",
	}
	cache.Put(110001, updated)

	got, _ := cache.Get(110001)
	assert.Equal(t, updated, got)
	assert.Equal(t, 1, cache.Size())
}

func TestPincodeCache_Clear(t *testing.T) {
	cache := NewPincodeCache()
	cache.Put(110001, delhiLocation())
	cache.Put(400001, geo.Location{Coordinate: geo.Coordinate{Latitude: 19.076, Longitude: 72.8777}})

	assert.Equal(t, 2, cache.Size())
	cache.Clear()
	assert.Equal(t, 0, cache.Size())

	_, ok := cache.Get(110001)
	assert.False(t, ok)
}

func TestPincodeCache_ConcurrentAccess(t *testing.T) {
	cache := NewPincodeCache()
	loc := delhiLocation()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.Put(110001, loc)
		}()
		go func() {
			defer wg.Done()
			if got, ok := cache.Get(110001); ok {
				assert.Equal(t, loc, got)
			}
		}()
	}
	wg.Wait()

	got, ok := cache.Get(110001)
	assert.True(t, ok)
	assert.Equal(t, loc, got)
}
