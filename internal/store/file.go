package store

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/pos-terminal/internal/identity"
)

// fileState is the on-disk layout. UserData stays a raw message so a
// corrupt user blob does not take the token down with it.
type fileState struct {
	AuthToken  string          `json:"authToken,omitempty"`
	UserData   json.RawMessage `json:"userData,omitempty"`
	LastUserID string          `json:"lastUserId,omitempty"`
}

// FileStore keeps the session in a JSON state file, the terminal analog of
// browser local storage.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore builds a store writing to path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// ReadToken returns the stored bearer token, or "" when absent.
func (s *FileStore) ReadToken() string {
	return s.load().AuthToken
}

// ReadUserData returns the stored partial user, failing soft to nil on
// malformed JSON.
func (s *FileStore) ReadUserData() *identity.User {
	state := s.load()
	if len(state.UserData) == 0 {
		return nil
	}
	var user identity.User
	if err := json.Unmarshal(state.UserData, &user); err != nil {
		s.logger.Warn("corrupt user data in session file, treating as absent", zap.Error(err))
		return nil
	}
	return &user
}

// ReadLastUserID returns the last known user id, or "".
func (s *FileStore) ReadLastUserID() string {
	return s.load().LastUserID
}

// Write persists the token and user data.
func (s *FileStore) Write(token string, user identity.User) {
	state := s.load()
	state.AuthToken = token

	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode user data", zap.Error(err))
	} else {
		state.UserData = data
	}

	if user.ID != "" && user.ID != identity.PlaceholderID {
		state.LastUserID = user.ID
	}

	s.save(state)
}

// Clear removes token and user data but keeps the last known id.
func (s *FileStore) Clear() {
	state := s.load()
	state.AuthToken = ""
	state.UserData = nil
	s.save(state)
}

func (s *FileStore) load() fileState {
	var state fileState
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read session file", zap.Error(err))
		}
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("corrupt session file, treating as empty", zap.Error(err))
		return fileState{}
	}
	return state
}

func (s *FileStore) save(state fileState) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode session file", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Warn("failed to write session file", zap.Error(err))
	}
}
