// Package filestore persists recorded rounds as one JSON-lines file per
// round: a header line followed by one line per frame.
package filestore

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/user"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"github.com/hoangpq/snake-engine/replay"
)

const fileSuffix = ".jsonl"

func defaultDir() string {
	return path.Join(homeDir(), ".snake/replays")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// writer is the open file handle behind a live round, swappable in tests.
type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

var openFileWriter = func(p string) (writer, error) {
	return os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// NewFileStore returns a file based store implementation (1 file per round).
// An empty directory selects ~/.snake/replays.
func NewFileStore(directory string) replay.Store {
	if directory == "" {
		directory = defaultDir()
	}
	return &fileStore{
		rounds:    map[string]*replay.Round{},
		frames:    map[string][]*replay.Frame{},
		writers:   map[string]writer{},
		directory: directory,
	}
}

type fileStore struct {
	rounds    map[string]*replay.Round
	frames    map[string][]*replay.Frame
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

func (fs *fileStore) filePath(id string) string {
	return path.Join(fs.directory, id+fileSuffix)
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return err
}

func (fs *fileStore) CreateRound(ctx context.Context, r *replay.Round) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewV4().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if err := os.MkdirAll(fs.directory, 0775); err != nil {
		return errors.Wrap(err, "filestore: creating replay dir")
	}
	w, err := openFileWriter(fs.filePath(r.ID))
	if err != nil {
		return errors.Wrap(err, "filestore: opening round file")
	}
	if err := writeLine(w, r); err != nil {
		return errors.Wrap(err, "filestore: writing round header")
	}

	stored := *r
	fs.rounds[r.ID] = &stored
	fs.writers[r.ID] = w
	return nil
}

func (fs *fileStore) SetRoundStatus(ctx context.Context, id string, status replay.Status) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	r, ok := fs.rounds[id]
	if !ok {
		return replay.ErrNotFound
	}
	r.Status = status
	if status == replay.StatusComplete {
		fs.closeRound(id)
	}
	return nil
}

// closeRound drops the round from the in-memory cache and closes its file
// handle. Further reads go through the file.
func (fs *fileStore) closeRound(id string) {
	if w, ok := fs.writers[id]; ok {
		if err := w.Close(); err != nil {
			log.WithError(err).Error("error while closing round file")
		}
	}
	delete(fs.rounds, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

func (fs *fileStore) GetRound(ctx context.Context, id string) (*replay.Round, error) {
	fs.lock.Lock()
	if r, ok := fs.rounds[id]; ok {
		out := *r
		fs.lock.Unlock()
		return &out, nil
	}
	fs.lock.Unlock()

	r, _, err := fs.readRound(id)
	return r, err
}

func (fs *fileStore) ListRounds(ctx context.Context) ([]*replay.Round, error) {
	fs.lock.Lock()
	out := []*replay.Round{}
	seen := map[string]bool{}
	for id, r := range fs.rounds {
		c := *r
		out = append(out, &c)
		seen[id] = true
	}
	fs.lock.Unlock()

	entries, err := os.ReadDir(fs.directory)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "filestore: listing replay dir")
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), fileSuffix)
		if seen[id] {
			continue
		}
		r, _, err := fs.readRound(id)
		if err != nil {
			log.WithError(err).WithField("round", id).Warn("skipping unreadable round file")
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (fs *fileStore) PushFrame(ctx context.Context, id string, f *replay.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	w, ok := fs.writers[id]
	if !ok {
		return replay.ErrNotFound
	}
	if err := writeLine(w, f); err != nil {
		return errors.Wrap(err, "filestore: writing frame")
	}
	fs.frames[id] = append(fs.frames[id], f)
	return nil
}

func (fs *fileStore) ListFrames(ctx context.Context, id string, limit, offset int) ([]*replay.Frame, error) {
	fs.lock.Lock()
	if _, ok := fs.rounds[id]; ok {
		frames := fs.frames[id]
		out := replay.PageFrames(frames, limit, offset)
		fs.lock.Unlock()
		return out, nil
	}
	fs.lock.Unlock()

	_, frames, err := fs.readRound(id)
	if err != nil {
		return nil, err
	}
	return replay.PageFrames(frames, limit, offset), nil
}

// readRound loads a finished round back from disk. A round read this way is
// complete by construction: live rounds are always served from the cache.
func (fs *fileStore) readRound(id string) (*replay.Round, []*replay.Frame, error) {
	f, err := os.Open(fs.filePath(id))
	if os.IsNotExist(err) {
		return nil, nil, replay.ErrNotFound
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "filestore: opening round file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	if !scanner.Scan() {
		return nil, nil, errors.Errorf("filestore: round %s is empty", id)
	}
	round := &replay.Round{}
	if err := json.Unmarshal(scanner.Bytes(), round); err != nil {
		return nil, nil, errors.Wrap(err, "filestore: bad round header")
	}
	round.Status = replay.StatusComplete

	var frames []*replay.Frame
	for scanner.Scan() {
		frame := &replay.Frame{}
		if err := json.Unmarshal(scanner.Bytes(), frame); err != nil {
			return nil, nil, errors.Wrap(err, "filestore: bad frame line")
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "filestore: reading round file")
	}
	return round, frames, nil
}
