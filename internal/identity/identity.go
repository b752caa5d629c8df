package identity

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Provisioner supplies the stable identifier that scopes every record to
// "the current user". When no session exists it synthesizes a throwaway
// account, kept in a JSON state file so the id survives restarts.
// Single-tenant demo only; a real deployment replaces this with actual
// authentication.
type Provisioner struct {
	filePath string
}

type session struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

func NewProvisioner(stateDir string) *Provisioner {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create state directory: %v", err)
	}
	return &Provisioner{filePath: filepath.Join(stateDir, "session.json")}
}

// Current returns the provisioned user id, or false when no session exists.
func (p *Provisioner) Current() (string, bool) {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read session file: %v", err)
		}
		return "", false
	}

	var s session
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("⚠️ Failed to parse session file: %v", err)
		return "", false
	}
	if s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

// RegisterEphemeral creates a disposable identity and persists it.
func (p *Provisioner) RegisterEphemeral() (string, error) {
	now := time.Now().UnixMilli()
	s := session{
		UserID:    uuid.NewString(),
		Email:     fmt.Sprintf("user-%d@demo.com", now),
		CreatedAt: now,
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(p.filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write session file: %w", err)
	}
	return s.UserID, nil
}

// Provision returns the current identity, registering an ephemeral one when
// no session exists.
func (p *Provisioner) Provision() (string, error) {
	if id, ok := p.Current(); ok {
		return id, nil
	}
	id, err := p.RegisterEphemeral()
	if err != nil {
		return "", err
	}
	log.Printf("👤 Registered ephemeral identity %s", id)
	return id, nil
}
