package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/heightfield/internal/config"
	"github.com/OCharnyshevich/heightfield/internal/nbt"
)

// Storage handles file-based persistence for config, fields and timings.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating it as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the storage root.
func (s *Storage) Dir() string {
	return s.dir
}

// FetchConfig downloads the config at src into the storage root and parses
// it on top of config.DefaultConfig. src is any go-getter source: a local
// path, an http(s) URL, s3::, gcs:: or git:: with a //subpath.
func (s *Storage) FetchConfig(ctx context.Context, src string) (*config.Config, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	dst := filepath.Join(s.dir, "config.fetched.json")
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale config: %w", err)
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, fmt.Errorf("fetch config %s: %w", src, err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := config.DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config", "src", src)
	return cfg, nil
}

// SaveField writes fd to the storage root in the given format and returns
// the file path.
func (s *Storage) SaveField(fd *FieldData, format string) (string, error) {
	name := fmt.Sprintf("field-%d.%s", fd.Seed, format)
	path := filepath.Join(s.dir, name)

	var err error
	switch format {
	case config.FormatJSON:
		err = s.atomicWriteJSON(path, fd)
	case config.FormatNBT:
		err = s.atomicWriteNBT(path, fd)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("save field %d: %w", fd.Seed, err)
	}
	return path, nil
}

// LoadField reads a field previously saved as JSON.
func (s *Storage) LoadField(path string) (*FieldData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field: %w", err)
	}
	var fd FieldData
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parse field: %w", err)
	}
	if len(fd.Heights) != fd.Width*fd.Height {
		return nil, fmt.Errorf("parse field: %d heights for %dx%d", len(fd.Heights), fd.Width, fd.Height)
	}
	return &fd, nil
}

// AppendTiming appends one line to the timing log at path.
func (s *Storage) AppendTiming(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open timing log: %w", err)
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return fmt.Errorf("write timing log: %w", err)
	}
	return f.Close()
}

// NBTFormat names the layout written by EncodeNBT.
const NBTFormat = "heightfield/value-noise/v1"

// EncodeNBT returns the gzip-compressed NBT encoding of fd.
func EncodeNBT(fd *FieldData) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)

	w := nbt.NewWriter(zw)
	w.BeginCompound("")
	w.WriteString("Format", NBTFormat)
	w.WriteInt("Width", int32(fd.Width))
	w.WriteInt("Height", int32(fd.Height))
	w.WriteInt("Octaves", int32(fd.Octaves))
	w.WriteDouble("Persistence", fd.Persistence)
	w.WriteLong("Seed", int64(fd.Seed))
	w.WriteDouble("Mean", fd.Mean)
	w.WriteDoubleList("Heights", fd.Heights)
	w.EndCompound()
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encode nbt: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Storage) atomicWriteNBT(path string, fd *FieldData) error {
	data, err := EncodeNBT(fd)
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	return atomicWrite(path, data)
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
