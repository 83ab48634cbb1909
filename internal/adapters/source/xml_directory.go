package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// ErrMalformedDirectory is returned when the directory document does not
// have the expected shape. Unlike punch rows, a broken directory aborts the
// whole load.
var ErrMalformedDirectory = errors.New("malformed directory document")

// XMLDirectory loads the user directory from an XML document carrying a
// server host prefix and a list of user nodes.
type XMLDirectory struct {
	path   string
	logger *zap.Logger
}

// NewXMLDirectory creates a loader for the given file.
func NewXMLDirectory(path string, logger *zap.Logger) *XMLDirectory {
	return &XMLDirectory{path: path, logger: logger}
}

type directoryDoc struct {
	Server struct {
		Host string `xml:"host"`
	} `xml:"server"`
	Users *struct {
		Users []directoryUser `xml:"user"`
	} `xml:"users"`
}

type directoryUser struct {
	ID     string `xml:"id,attr"`
	Avatar string `xml:"avatar"`
	Name   string `xml:"name"`
	Email  string `xml:"email"`
}

// Load parses the directory document into entries keyed by user ID. The
// avatar reference is the server host concatenated with the per-user avatar
// fragment.
func (s *XMLDirectory) Load(ctx context.Context) (map[int]core.DirectoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory file: %w", err)
	}

	var doc directoryDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDirectory, err)
	}
	if doc.Server.Host == "" {
		return nil, fmt.Errorf("%w: missing server host", ErrMalformedDirectory)
	}
	if doc.Users == nil {
		return nil, fmt.Errorf("%w: missing user list", ErrMalformedDirectory)
	}

	directory := make(map[int]core.DirectoryEntry, len(doc.Users.Users))
	for _, user := range doc.Users.Users {
		id, err := strconv.Atoi(user.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid user id %q", ErrMalformedDirectory, user.ID)
		}
		directory[id] = core.DirectoryEntry{
			UserID:    id,
			Name:      user.Name,
			AvatarURL: doc.Server.Host + user.Avatar,
			Email:     user.Email,
		}
	}

	s.logger.Debug("Loaded user directory",
		zap.Int("users", len(directory)),
		zap.String("host", doc.Server.Host))
	return directory, nil
}
