package config

import "github.com/google/uuid"

// Workspace is a named scope of repository roots. Commands that
// register repositories or end reviews in bulk are bounded by the
// active workspace's roots.
type Workspace struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roots []string `json:"roots,omitempty"`
}

// NewWorkspace creates a workspace with a fresh ID.
func NewWorkspace(name string, roots []string) Workspace {
	return Workspace{ID: uuid.New().String(), Name: name, Roots: roots}
}

// AddWorkspace adds a workspace. Returns false if a workspace with the
// same name already exists.
func (c *Config) AddWorkspace(ws Workspace) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.Workspaces {
		if existing.Name == ws.Name {
			return false
		}
	}
	c.Workspaces = append(c.Workspaces, ws)
	return true
}

// RemoveWorkspace removes a workspace by ID and clears the active
// workspace if it was this one. Returns false if not found.
func (c *Config) RemoveWorkspace(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, ws := range c.Workspaces {
		if ws.ID == id {
			c.Workspaces = append(c.Workspaces[:i], c.Workspaces[i+1:]...)
			if c.ActiveWorkspaceID == id {
				c.ActiveWorkspaceID = ""
			}
			return true
		}
	}
	return false
}

// SetActiveWorkspaceID sets the active workspace. Pass empty to clear.
func (c *Config) SetActiveWorkspaceID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ActiveWorkspaceID = id
}

// WorkspaceRoots returns the roots of the active workspace, or nil if
// no workspace is active (meaning no restriction).
func (c *Config) WorkspaceRoots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ActiveWorkspaceID == "" {
		return nil
	}
	for _, ws := range c.Workspaces {
		if ws.ID == c.ActiveWorkspaceID {
			roots := make([]string, len(ws.Roots))
			copy(roots, ws.Roots)
			return roots
		}
	}
	return nil
}
