package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/Fred49680/operaflow-gantt/internal/lock"
	"github.com/Fred49680/operaflow-gantt/internal/model"
	yamlutil "github.com/Fred49680/operaflow-gantt/internal/yaml"
)

// FileStore is the YAML-file reference implementation of the boundary
// stores. One file holds one project's plan; writes are atomic and the
// file is guarded by an advisory flock so two processes cannot edit the
// same plan concurrently.
type FileStore struct {
	path     string
	fileLock *lock.FileLock
	logger   *log.Logger

	mu       sync.Mutex
	data     *projectFile
	calCache map[string]*model.Calendar

	sf singleflight.Group
}

// OpenFile loads (or initializes) a project file and acquires its lock.
// A file that fails to parse is quarantined and the error returned.
func OpenFile(path string, logger *log.Logger) (*FileStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	fs := &FileStore{
		path:     path,
		fileLock: lock.NewFileLock(path + ".lock"),
		logger:   logger,
		calCache: make(map[string]*model.Calendar),
	}
	if err := fs.fileLock.TryLock(); err != nil {
		return nil, err
	}
	if err := fs.load(); err != nil {
		fs.fileLock.Unlock()
		return nil, err
	}
	return fs, nil
}

// Close releases the file lock.
func (fs *FileStore) Close() error {
	return fs.fileLock.Unlock()
}

// Path returns the project file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// ProjectID returns the id of the project the file holds.
func (fs *FileStore) ProjectID() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.data.Project.ID
}

func (fs *FileStore) load() error {
	content, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		fs.mu.Lock()
		fs.data = &projectFile{
			SchemaVersion: currentSchemaVersion,
			FileType:      "project_plan",
			Project:       projectRecord{ID: uuid.NewString(), Name: strings.TrimSuffix(filepath.Base(fs.path), filepath.Ext(fs.path))},
		}
		fs.mu.Unlock()
		return fs.save()
	}
	if err != nil {
		return fmt.Errorf("read project file: %w", err)
	}

	var pf projectFile
	if err := yamlv3.Unmarshal(content, &pf); err != nil {
		if qerr := yamlutil.Quarantine(filepath.Dir(fs.path), fs.path); qerr != nil {
			fs.logger.Printf("store: quarantine failed: %v", qerr)
		}
		restored, rerr := fs.restoreFromBackup()
		if rerr != nil {
			fs.logger.Printf("store: backup restore failed: %v", rerr)
			return fmt.Errorf("parse project file: %w", err)
		}
		fs.logger.Printf("store: recovered project file from backup after parse error: %v", err)
		pf = *restored
	}
	if pf.SchemaVersion == 0 {
		pf.SchemaVersion = currentSchemaVersion
	}

	fs.mu.Lock()
	fs.data = &pf
	fs.calCache = make(map[string]*model.Calendar)
	fs.mu.Unlock()
	return nil
}

// restoreFromBackup reinstates the .bak sibling the atomic writer
// maintains and parses it. The quarantine already moved the corrupt
// file aside, so a successful restore leaves a clean file in place.
func (fs *FileStore) restoreFromBackup() (*projectFile, error) {
	if err := yamlutil.RestoreFromBackup(fs.path); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("read restored file: %w", err)
	}
	var pf projectFile
	if err := yamlv3.Unmarshal(content, &pf); err != nil {
		return nil, fmt.Errorf("parse restored file: %w", err)
	}
	return &pf, nil
}

// Reload re-reads the file from disk, deduplicating concurrent calls.
// Invoked by the watcher when another tool touched the file.
func (fs *FileStore) Reload() error {
	_, err, _ := fs.sf.Do("reload", func() (interface{}, error) {
		return nil, fs.load()
	})
	return err
}

func (fs *FileStore) save() error {
	fs.mu.Lock()
	snapshot := *fs.data
	fs.mu.Unlock()
	return yamlutil.AtomicWrite(fs.path, &snapshot)
}

// --- TaskStore ---

func (fs *FileStore) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if projectID != "" && projectID != fs.data.Project.ID {
		return nil, nil
	}
	out := make([]model.Task, 0, len(fs.data.Tasks))
	for _, r := range fs.data.Tasks {
		out = append(out, r.toModel(fs.data.Project.ID))
	}
	return out, nil
}

func (fs *FileStore) ListDependencies(ctx context.Context, projectID string) ([]model.Dependency, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if projectID != "" && projectID != fs.data.Project.ID {
		return nil, nil
	}
	out := make([]model.Dependency, 0, len(fs.data.Dependencies))
	for _, r := range fs.data.Dependencies {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (fs *FileStore) PatchTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	fs.mu.Lock()
	idx := -1
	for i := range fs.data.Tasks {
		if fs.data.Tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		fs.mu.Unlock()
		return model.Task{}, fmt.Errorf("task %q not found", id)
	}
	r := &fs.data.Tasks[idx]
	if patch.Start != nil {
		r.Start = formatDate(*patch.Start)
	}
	if patch.End != nil {
		r.End = formatDate(*patch.End)
	}
	if patch.DurationUnits != nil {
		r.DurationUnits = *patch.DurationUnits
	}
	if patch.Status != nil {
		r.Status = string(*patch.Status)
	}
	updated := r.toModel(fs.data.Project.ID)
	fs.mu.Unlock()

	if err := fs.save(); err != nil {
		return model.Task{}, fmt.Errorf("persist task %q: %w", id, err)
	}
	return updated, nil
}

// CreateTask mints an id and appends the task. Used by the task
// creation flow, not by the scheduling core.
func (fs *FileStore) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = model.StatusPlanned
	}
	if t.Mode == "" {
		t.Mode = model.ModeStandard
	}
	fs.mu.Lock()
	t.ProjectID = fs.data.Project.ID
	fs.data.Tasks = append(fs.data.Tasks, taskToRecord(t))
	fs.mu.Unlock()

	if err := fs.save(); err != nil {
		return model.Task{}, fmt.Errorf("persist new task: %w", err)
	}
	return t, nil
}

// CreateDependency appends a dependency edge.
func (fs *FileStore) CreateDependency(ctx context.Context, d model.Dependency) error {
	if !d.Type.Valid() {
		return fmt.Errorf("invalid dependency type %q", d.Type)
	}
	fs.mu.Lock()
	fs.data.Dependencies = append(fs.data.Dependencies, depRecord{
		Successor:   d.SuccessorID,
		Predecessor: d.PredecessorID,
		Type:        string(d.Type),
		LagDays:     d.LagDays,
	})
	fs.mu.Unlock()
	return fs.save()
}

// CreateMilestone mints an id and appends the milestone.
func (fs *FileStore) CreateMilestone(ctx context.Context, m model.Milestone) (model.Milestone, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	fs.mu.Lock()
	m.ProjectID = fs.data.Project.ID
	fs.data.Milestones = append(fs.data.Milestones, milestoneRecord{
		ID:      m.ID,
		Label:   m.Label,
		Start:   formatDate(m.Start),
		End:     formatDate(m.End),
		OnGantt: m.OnGantt,
	})
	fs.mu.Unlock()

	if err := fs.save(); err != nil {
		return model.Milestone{}, fmt.Errorf("persist new milestone: %w", err)
	}
	return m, nil
}

// --- MilestoneStore ---

func (fs *FileStore) ListMilestones(ctx context.Context, projectID string) ([]model.Milestone, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if projectID != "" && projectID != fs.data.Project.ID {
		return nil, nil
	}
	out := make([]model.Milestone, 0, len(fs.data.Milestones))
	for _, r := range fs.data.Milestones {
		out = append(out, r.toModel(fs.data.Project.ID))
	}
	return out, nil
}

func (fs *FileStore) PatchMilestone(ctx context.Context, id string, patch MilestonePatch) (model.Milestone, error) {
	fs.mu.Lock()
	idx := -1
	for i := range fs.data.Milestones {
		if fs.data.Milestones[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		fs.mu.Unlock()
		return model.Milestone{}, fmt.Errorf("milestone %q not found", id)
	}
	r := &fs.data.Milestones[idx]
	if patch.Start != nil {
		r.Start = formatDate(*patch.Start)
	}
	if patch.End != nil {
		r.End = formatDate(*patch.End)
	}
	updated := r.toModel(fs.data.Project.ID)
	fs.mu.Unlock()

	if err := fs.save(); err != nil {
		return model.Milestone{}, fmt.Errorf("persist milestone %q: %w", id, err)
	}
	return updated, nil
}

// --- CalendarStore ---

func (fs *FileStore) GetCalendar(ctx context.Context, id string) (*model.Calendar, error) {
	fs.mu.Lock()
	if cal, ok := fs.calCache[id]; ok {
		fs.mu.Unlock()
		return cal, nil
	}
	for i := range fs.data.Calendars {
		if fs.data.Calendars[i].ID == id {
			cal := fs.data.Calendars[i]
			fs.calCache[id] = &cal
			fs.mu.Unlock()
			return &cal, nil
		}
	}
	fs.mu.Unlock()
	return nil, fmt.Errorf("calendar %q not found", id)
}

func (fs *FileStore) ListActiveCalendars(ctx context.Context, siteID string) ([]model.Calendar, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []model.Calendar
	for _, c := range fs.data.Calendars {
		if !c.Active {
			continue
		}
		if c.SiteID == "" || c.SiteID == siteID {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ TaskStore = (*FileStore)(nil)
var _ MilestoneStore = (*FileStore)(nil)
var _ CalendarStore = (*FileStore)(nil)
