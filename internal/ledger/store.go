package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// формат файла: весь реестр плюс счётчик id одним документом
type ledgerFile struct {
	Fines  map[string][]*Fine `json:"fines"`
	NextID int                `json:"nextId"`
}

// Store — файловая персистенция реестра.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load читает файл целиком. Нет файла — пустой реестр и счётчик с единицы.
// Не распарсился — ErrCorruptState, решает вызывающий.
func (s *Store) Load() (map[string][]*Fine, int, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]*Fine{}, 1, nil
		}
		return nil, 0, err
	}

	var lf ledgerFile
	if err := json.Unmarshal(b, &lf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if lf.Fines == nil {
		lf.Fines = map[string][]*Fine{}
	}
	if lf.NextID < 1 {
		lf.NextID = 1
	}
	// пустые списки в файле считаем отсутствием мульт
	for id, seq := range lf.Fines {
		if len(seq) == 0 {
			delete(lf.Fines, id)
		}
	}
	return lf.Fines, lf.NextID, nil
}

// Save пишет весь снапшот во временный файл и переименовывает поверх:
// упавший посреди записи процесс не портит предыдущую версию.
func (s *Store) Save(fines map[string][]*Fine, nextID int) error {
	b, err := json.MarshalIndent(ledgerFile{Fines: fines, NextID: nextID}, "", "  ")
	if err != nil {
		return err
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0755)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
