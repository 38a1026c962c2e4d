package specs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghanse/dlt-workshop/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository loads custom TableSpec documents from a directory, so a
// workshop host can generate extra datasets without recompiling.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func (r *FileRepository) List() ([]*domain.TableSpec, error) {
	if _, err := os.Stat(r.baseDir); os.IsNotExist(err) {
		return []*domain.TableSpec{}, nil
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, err
	}

	list := make([]*domain.TableSpec, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}

		spec, err := r.loadSpec(filepath.Join(r.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		list = append(list, spec)
	}

	return list, nil
}

func (r *FileRepository) Get(name string) (*domain.TableSpec, error) {
	list, err := r.List()
	if err != nil {
		return nil, err
	}

	for _, s := range list {
		if s.Name == name {
			return s, nil
		}
	}

	return nil, fmt.Errorf("spec not found: %s", name)
}

func (r *FileRepository) GetByPath(path string) (*domain.TableSpec, error) {
	return r.loadSpec(path)
}

func (r *FileRepository) loadSpec(path string) (*domain.TableSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec domain.TableSpec
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &spec)
	} else {
		err = yaml.Unmarshal(data, &spec)
	}
	if err != nil {
		return nil, err
	}

	if spec.Name == "" {
		return nil, fmt.Errorf("spec %s is missing a name", path)
	}
	if spec.Delimiter == "" {
		spec.Delimiter = ","
	}

	return &spec, nil
}
