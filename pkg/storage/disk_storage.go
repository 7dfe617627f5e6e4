package storage

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path"

	"github.com/matst80/slask-catalog/pkg/types"
)

const productsFile = "products.gz"
const settingsFile = "settings.json"

// DiskStorage persists catalog snapshots under a single data directory.
// Products are a gzipped gob stream, settings plain json. Writes go through
// a temp file and rename so a crash never leaves a half written snapshot.
type DiskStorage struct {
	Path string
}

func NewDiskStorage(dataPath string) *DiskStorage {
	return &DiskStorage{Path: dataPath}
}

func (d *DiskStorage) GetFileName(name string) (string, error) {
	if err := os.MkdirAll(d.Path, 0775); err != nil {
		return "", err
	}
	return path.Join(d.Path, name), nil
}

func (d *DiskStorage) SaveProducts(items []*types.Product) error {
	fileName, err := d.GetFileName(productsFile)
	if err != nil {
		return err
	}
	tmp := fileName + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)
	for _, item := range items {
		if err = enc.Encode(item); err != nil {
			file.Close()
			return err
		}
	}
	if err = zw.Close(); err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, fileName)
}

// LoadProducts streams every stored product through apply. A missing
// snapshot is not an error, the catalog just starts empty.
func (d *DiskStorage) LoadProducts(apply func(*types.Product)) error {
	fileName, err := d.GetFileName(productsFile)
	if err != nil {
		return err
	}
	file, err := os.Open(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("no product snapshot at %s, starting empty", fileName)
			return nil
		}
		return err
	}
	defer file.Close()
	zr, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zr.Close()
	dec := gob.NewDecoder(zr)
	for {
		item := &types.Product{}
		if err = dec.Decode(item); err != nil {
			break
		}
		apply(item)
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (d *DiskStorage) SaveJson(v any, name string) error {
	fileName, err := d.GetFileName(name)
	if err != nil {
		return err
	}
	tmp := fileName + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err = json.NewEncoder(file).Encode(v); err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, fileName)
}

func (d *DiskStorage) LoadJson(v any, name string) error {
	fileName, err := d.GetFileName(name)
	if err != nil {
		return err
	}
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(v)
}

func (d *DiskStorage) LoadSettings() error {
	types.CurrentSettings.Lock()
	defer types.CurrentSettings.Unlock()
	err := d.LoadJson(types.CurrentSettings, settingsFile)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *DiskStorage) SaveSettings() error {
	types.CurrentSettings.RLock()
	defer types.CurrentSettings.RUnlock()
	return d.SaveJson(types.CurrentSettings, settingsFile)
}
