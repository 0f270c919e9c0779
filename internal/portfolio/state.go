package portfolio

import (
	"encoding/json"
	"os"
	"time"

	"CryptoSentinel/internal/model"
)

// LoadState reads the user state from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*model.UserState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.UserState{}, nil
		}
		return nil, err
	}
	var state model.UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the user state to a JSON file.
func SaveState(filePath string, state *model.UserState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// fileStamp identifies one version of the state file.
type fileStamp struct {
	modTime time.Time
	size    int64
}

func statFile(filePath string) (fileStamp, error) {
	fi, err := os.Stat(filePath)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: fi.ModTime(), size: fi.Size()}, nil
}

func (s fileStamp) same(o fileStamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}
