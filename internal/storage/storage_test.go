package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/heightfield/internal/config"
	"github.com/OCharnyshevich/heightfield/internal/nbt"
	"github.com/OCharnyshevich/heightfield/pkg/heightfield"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(filepath.Join(t.TempDir(), "out"), log)
	require.NoError(t, err)
	return s
}

func testField(t *testing.T) *FieldData {
	t.Helper()
	g, err := heightfield.SynthesizeHeightField(4, 3, 2, heightfield.NewSource(5))
	require.NoError(t, err)
	mean, err := heightfield.MeanHeight(g)
	require.NoError(t, err)
	return FieldDataFromGrid(g, 5, 2, heightfield.DefaultPersistence, mean)
}

func TestFetchConfigLocalFile(t *testing.T) {
	s := newTestStorage(t)
	src := filepath.Join(t.TempDir(), "gen.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"width": 64, "octaves": 3, "format": "nbt"}`), 0o644))

	cfg, err := s.FetchConfig(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 3, cfg.Octaves)
	assert.Equal(t, config.FormatNBT, cfg.Format)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 128, cfg.Height)
	assert.Equal(t, 0.5, cfg.Persistence)

	// A second fetch replaces the first.
	require.NoError(t, os.WriteFile(src, []byte(`{"width": 32}`), 0o644))
	cfg, err = s.FetchConfig(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)
}

func TestFetchConfigMissing(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.FetchConfig(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFetchConfigMalformed(t *testing.T) {
	s := newTestStorage(t)
	src := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"width": `), 0o644))

	_, err := s.FetchConfig(context.Background(), src)
	assert.ErrorContains(t, err, "parse config")
}

func TestSaveLoadFieldJSON(t *testing.T) {
	s := newTestStorage(t)
	fd := testField(t)

	path, err := s.SaveField(fd, config.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "field-5.json"), path)

	got, err := s.LoadField(path)
	require.NoError(t, err)
	assert.Equal(t, fd, got)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")
}

func TestLoadFieldSizeMismatch(t *testing.T) {
	s := newTestStorage(t)
	path := filepath.Join(s.Dir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"width":2,"height":2,"heights":[1,2,3]}`), 0o644))

	_, err := s.LoadField(path)
	assert.ErrorContains(t, err, "3 heights for 2x2")
}

func TestSaveFieldNBT(t *testing.T) {
	s := newTestStorage(t)
	fd := testField(t)

	path, err := s.SaveField(fd, config.FormatNBT)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "field-5.nbt"))

	compressed, err := os.ReadFile(path)
	require.NoError(t, err)
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	assert.Equal(t, nbt.TagCompound, data[0])
	assert.Equal(t, nbt.TagEnd, data[len(data)-1])

	// Root compound (tag + empty name) is followed by the Format string tag.
	assert.Equal(t, nbt.TagString, data[3])
	format := data[3+1+2+len("Format")+2:]
	assert.True(t, bytes.HasPrefix(format, []byte(NBTFormat)))

	// The heights list closes the compound: 12 doubles, then TagEnd.
	heights := data[len(data)-1-12*8 : len(data)-1]
	first := math.Float64frombits(binary.BigEndian.Uint64(heights[:8]))
	assert.Equal(t, fd.Heights[0], first)
	count := binary.BigEndian.Uint32(data[len(data)-1-12*8-4 : len(data)-1-12*8])
	assert.Equal(t, uint32(12), count)
}

func TestSaveFieldUnknownFormat(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.SaveField(testField(t), "png")
	assert.ErrorContains(t, err, `unknown format "png"`)
}

func TestAppendTiming(t *testing.T) {
	s := newTestStorage(t)
	path := filepath.Join(s.Dir(), "speed.txt")

	require.NoError(t, s.AppendTiming(path, "first"))
	require.NoError(t, s.AppendTiming(path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}
