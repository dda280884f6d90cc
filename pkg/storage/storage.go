// Package storage keeps uploaded item photos behind a swappable Disk.
// The "local" driver writes under a directory on the host; the "s3"
// driver talks to any S3-compatible endpoint (AWS, MinIO, R2, Spaces).
//
//	storage.Connect()
//	storage.PutStream("items/42/front.jpg", file)
//	url := storage.URL("items/42/front.jpg")
package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/pkg/logger"
)

// Disk is one storage backend. Paths are slash-separated and relative
// to the disk root; URL returns where a browser can fetch the object.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Size(path string) (int64, error)
	URL(path string) string
	Delete(path string) error
}

var (
	mu     sync.RWMutex
	fleet  = map[string]Disk{}
	active string
)

// Connect boots the configured disks. The local disk always exists; s3
// joins only when a bucket is set, and a broken s3 config degrades to a
// warning rather than a boot failure.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	active = config.StorageDefault()
	fleet["local"] = newLocalDisk()

	if config.StorageS3Bucket() == "" {
		return
	}
	d, err := newS3Disk()
	if err != nil {
		logger.Warn("storage: s3 disk disabled", "error", err)
		return
	}
	fleet["s3"] = d
}

// Use picks a disk by name. Panics on an unconfigured name: that is a
// wiring bug, not a runtime condition.
func Use(name string) Disk {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := fleet[name]
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// The rest of the package proxies to the default disk (STORAGE_DISK).

func Put(path string, content []byte) error { return Use(active).Put(path, content) }

func PutStream(path string, r io.Reader) error { return Use(active).PutStream(path, r) }

func Get(path string) ([]byte, error) { return Use(active).Get(path) }

func GetStream(path string) (io.ReadCloser, error) { return Use(active).GetStream(path) }

func Exists(path string) bool { return Use(active).Exists(path) }

func Size(path string) (int64, error) { return Use(active).Size(path) }

func URL(path string) string { return Use(active).URL(path) }

func Delete(path string) error { return Use(active).Delete(path) }
