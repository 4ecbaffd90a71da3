package permission

import (
	"fmt"
	"testing"

	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db *gorm.DB

	alpha, gamma models.Team
	shared, solo models.Project
	ua, uc       models.Worker
	taskShared   models.Task
	taskSolo     models.Task
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := models.SeedAll(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := &fixture{db: db}

	f.alpha = models.Team{Name: "Alpha"}
	f.gamma = models.Team{Name: "Gamma"}
	for _, team := range []*models.Team{&f.alpha, &f.gamma} {
		if err := db.Create(team).Error; err != nil {
			t.Fatal(err)
		}
	}

	f.shared = models.Project{Name: "Shared", Teams: []models.Team{f.alpha}}
	f.solo = models.Project{Name: "Solo", Teams: []models.Team{f.gamma}}
	for _, project := range []*models.Project{&f.shared, &f.solo} {
		if err := db.Create(project).Error; err != nil {
			t.Fatal(err)
		}
	}

	f.ua = models.Worker{Username: "ua", Email: "ua@x", FirstName: "U", LastName: "A", TeamID: f.alpha.ID}
	f.uc = models.Worker{Username: "uc", Email: "uc@x", FirstName: "U", LastName: "C", TeamID: f.gamma.ID}
	for _, w := range []*models.Worker{&f.ua, &f.uc} {
		if err := db.Create(w).Error; err != nil {
			t.Fatal(err)
		}
	}

	f.taskShared = models.Task{Name: "in scope", ProjectID: f.shared.ID}
	f.taskSolo = models.Task{Name: "out of scope", ProjectID: f.solo.ID}
	for _, task := range []*models.Task{&f.taskShared, &f.taskSolo} {
		if err := db.Create(task).Error; err != nil {
			t.Fatal(err)
		}
	}

	return f
}

func TestGate_TaskRelationalFallback(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	if err := gate.Allow(&f.ua, TaskView, f.taskShared.ID); err != nil {
		t.Errorf("task in own team's project should be allowed, got %v", err)
	}
	if err := gate.Allow(&f.ua, TaskView, f.taskSolo.ID); err != ErrForbidden {
		t.Errorf("task outside scope should be forbidden, got %v", err)
	}
}

func TestGate_CoarsePermissionShortCircuits(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	if err := models.GrantPerm(f.db, &f.ua, models.PermViewTask); err != nil {
		t.Fatal(err)
	}
	if err := gate.Allow(&f.ua, TaskView, f.taskSolo.ID); err != nil {
		t.Errorf("view_task holder should pass on any task, got %v", err)
	}
}

func TestGate_MissingObject(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	const missing = 9999

	if err := gate.Allow(&f.ua, TaskView, missing); err != ErrNotFound {
		t.Errorf("missing task without coarse perm should be ErrNotFound, got %v", err)
	}

	// With the coarse permission the gate passes; the handler's own lookup
	// reports the miss.
	if err := models.GrantPerm(f.db, &f.ua, models.PermViewTask); err != nil {
		t.Fatal(err)
	}
	if err := gate.Allow(&f.ua, TaskView, missing); err != nil {
		t.Errorf("coarse-permission holder should pass even on a missing task, got %v", err)
	}
}

func TestGate_Superuser(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	admin := models.Worker{Username: "boss", Email: "b@x", FirstName: "B", LastName: "S", Role: models.RoleAdmin, TeamID: f.gamma.ID}
	if err := f.db.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}

	for _, action := range []Action{TaskView, TaskChange, TaskDelete, ProjectDelete, WorkerDelete} {
		if err := gate.Allow(&admin, action, f.taskShared.ID); err != nil {
			t.Errorf("superuser denied action %d: %v", action, err)
		}
	}
}

func TestGate_ProjectScope(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	if err := gate.Allow(&f.ua, ProjectView, f.shared.ID); err != nil {
		t.Errorf("own project should be allowed, got %v", err)
	}
	if err := gate.Allow(&f.ua, ProjectView, f.solo.ID); err != ErrForbidden {
		t.Errorf("foreign project should be forbidden, got %v", err)
	}
	if err := gate.Allow(&f.ua, ProjectView, 9999); err != ErrNotFound {
		t.Errorf("missing project should be ErrNotFound, got %v", err)
	}
}

func TestGate_TeamScope(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	if err := gate.Allow(&f.ua, TeamView, f.alpha.ID); err != nil {
		t.Errorf("own team should be allowed, got %v", err)
	}
	if err := gate.Allow(&f.ua, TeamView, f.gamma.ID); err != ErrForbidden {
		t.Errorf("foreign team should be forbidden, got %v", err)
	}
}

func TestGate_SentinelTeamHidden(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	admin := models.Worker{Username: "boss", Email: "b@x", FirstName: "B", LastName: "S", Role: models.RoleAdmin, TeamID: f.alpha.ID}
	if err := f.db.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}

	// Hidden even from superusers.
	for _, u := range []*models.Worker{&f.ua, &admin} {
		if err := gate.Allow(u, TeamView, models.DefaultTeamID()); err != ErrNotFound {
			t.Errorf("sentinel team should be hidden from %s, got %v", u.Username, err)
		}
	}
}

func TestGate_WorkerActions(t *testing.T) {
	f := newFixture(t)
	gate := NewGate(f.db)

	if err := gate.Allow(&f.ua, WorkerView, f.ua.ID); err != nil {
		t.Errorf("worker should view themself, got %v", err)
	}
	if err := gate.Allow(&f.ua, WorkerView, f.uc.ID); err != ErrForbidden {
		t.Errorf("unrelated worker should be forbidden, got %v", err)
	}

	if err := gate.Allow(&f.ua, WorkerChange, f.ua.ID); err != nil {
		t.Errorf("worker should change own profile, got %v", err)
	}
	if err := gate.Allow(&f.ua, WorkerChange, f.uc.ID); err != ErrForbidden {
		t.Errorf("changing another worker should be forbidden, got %v", err)
	}

	if err := gate.Allow(nil, WorkerView, f.ua.ID); err != ErrForbidden {
		t.Errorf("nil requester should be forbidden, got %v", err)
	}
}
