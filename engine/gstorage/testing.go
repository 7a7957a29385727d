package gstorage

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"sync"
)

// MemoryObjects keeps uploaded objects in memory, keyed by "<bucket>/<object>".
type MemoryObjects struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryGStorage(bucket, prefix string) (*GStorage, *MemoryObjects) {
	objects := &MemoryObjects{Objects: make(map[string][]byte)}
	return &GStorage{objects: objects, bucket: bucket, prefix: prefix}, objects
}

func (m *MemoryObjects) Get(bucket, object string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[bucket+"/"+object]
	return data, ok
}

func (m *MemoryObjects) NewWriter(ctx context.Context, bucket, object string) io.WriteCloser {
	return &memoryWriter{objects: m, key: bucket + "/" + object}
}

func (m *MemoryObjects) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	data, ok := m.Get(bucket, object)
	if !ok {
		return nil, ErrObjectNotExist
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryObjects) Close() error {
	return nil
}

type memoryWriter struct {
	objects *MemoryObjects
	key     string
	buf     bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	w.objects.mu.Lock()
	defer w.objects.mu.Unlock()
	w.objects.Objects[w.key] = w.buf.Bytes()
	return nil
}
