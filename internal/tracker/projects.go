package tracker

import (
	"strings"

	"tracker-cli/internal/model"
	"tracker-cli/internal/outline"
)

// ProjectSummary is the per-project line shown in project lists.
type ProjectSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Current  bool   `json:"current"`
	Items    int    `json:"items"`
	Progress int    `json:"progress"`
}

// Projects returns a deep copy of every project in order.
func (t *Tracker) Projects() []model.Project {
	return t.Document().Projects
}

func (t *Tracker) Summaries() []ProjectSummary {
	cur := t.current().id
	out := make([]ProjectSummary, 0, len(t.projects))
	for _, p := range t.projects {
		out = append(out, ProjectSummary{
			ID:       p.id,
			Name:     p.name,
			Current:  p.id == cur,
			Items:    p.forest.Len(),
			Progress: p.forest.ProjectProgress(),
		})
	}
	return out
}

// CurrentProjectID returns the stored current id, which may not resolve.
func (t *Tracker) CurrentProjectID() string { return t.currentID }

// CurrentProject returns the active project, falling back to the first one.
func (t *Tracker) CurrentProject() model.Project {
	p := t.current()
	return model.Project{ID: p.id, Name: p.name, Items: p.forest.Items()}
}

func (t *Tracker) projectIndex(id string) int {
	for i, p := range t.projects {
		if p.id == id {
			return i
		}
	}
	return -1
}

// AddProject appends an empty project, makes it current and returns its id.
// A blank name becomes the default project name.
func (t *Tracker) AddProject(name string) string {
	if strings.TrimSpace(name) == "" {
		name = model.DefaultProjectName
	}
	p := &project{id: t.uniqueProjectID(), name: name, forest: outline.New(t.newID)}
	t.projects = append(t.projects, p)
	t.currentID = p.id
	t.emit("project.create", p.id)
	return p.id
}

func (t *Tracker) uniqueProjectID() string {
	for {
		id := t.newID()
		if id != "" && t.projectIndex(id) < 0 {
			return id
		}
	}
}

// DeleteProject removes a project. The last remaining project cannot be
// deleted. When the current project goes, its predecessor (or the new first
// project) becomes current.
func (t *Tracker) DeleteProject(id string) bool {
	if len(t.projects) <= 1 {
		return false
	}
	idx := t.projectIndex(id)
	if idx < 0 {
		return false
	}
	t.projects = append(t.projects[:idx], t.projects[idx+1:]...)
	if t.currentID == id {
		t.currentID = t.projects[max(0, idx-1)].id
	}
	t.emit("project.delete", id)
	return true
}

func (t *Tracker) RenameProject(id, name string) bool {
	idx := t.projectIndex(id)
	if idx < 0 {
		return false
	}
	t.projects[idx].name = name
	t.emit("project.rename", id)
	return true
}

func (t *Tracker) SwitchProject(id string) bool {
	if t.projectIndex(id) < 0 {
		return false
	}
	t.currentID = id
	t.emit("project.switch", id)
	return true
}
