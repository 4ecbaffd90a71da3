package scope

import (
	"fmt"
	"testing"

	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture is two collaborating teams sharing a project, a third team with its
// own project, and a worker parked in the sentinel team.
type fixture struct {
	db *gorm.DB

	alpha, beta, gamma models.Team
	shared, solo       models.Project
	ua, ub, uc, loner  models.Worker
	admin              models.Worker
	taskShared         models.Task
	taskSolo           models.Task
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
	f.beta = models.Team{Name: "Beta"}
	f.gamma = models.Team{Name: "Gamma"}
	for _, team := range []*models.Team{&f.alpha, &f.beta, &f.gamma} {
		if err := db.Create(team).Error; err != nil {
			t.Fatalf("create team: %v", err)
		}
	}

	f.shared = models.Project{Name: "Shared", Teams: []models.Team{f.alpha, f.beta}}
	f.solo = models.Project{Name: "Solo", Teams: []models.Team{f.gamma}}
	for _, project := range []*models.Project{&f.shared, &f.solo} {
		if err := db.Create(project).Error; err != nil {
			t.Fatalf("create project: %v", err)
		}
	}

	f.ua = worker("ua", f.alpha.ID)
	f.ub = worker("ub", f.beta.ID)
	f.uc = worker("uc", f.gamma.ID)
	f.loner = worker("loner", 0)
	f.admin = worker("boss", f.alpha.ID)
	f.admin.Role = models.RoleAdmin
	for _, w := range []*models.Worker{&f.ua, &f.ub, &f.uc, &f.loner, &f.admin} {
		if err := db.Create(w).Error; err != nil {
			t.Fatalf("create worker: %v", err)
		}
	}

	f.taskShared = models.Task{Name: "shared work", ProjectID: f.shared.ID}
	f.taskSolo = models.Task{Name: "solo work", ProjectID: f.solo.ID}
	for _, task := range []*models.Task{&f.taskShared, &f.taskSolo} {
		if err := db.Create(task).Error; err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	return f
}

func worker(name string, teamID uint) models.Worker {
	return models.Worker{
		Username:  name,
		Email:     name + "@example.com",
		FirstName: name,
		LastName:  "Test",
		Role:      models.RoleUser,
		TeamID:    teamID,
	}
}

func taskIDs(t *testing.T, db *gorm.DB, u *models.Worker) map[uint]bool {
	t.Helper()
	var tasks []models.Task
	visible := ForEntity(db, EntityTask).Visible(u)
	if err := visible(db.Model(&models.Task{})).Find(&tasks).Error; err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	out := make(map[uint]bool)
	for _, task := range tasks {
		out[task.ID] = true
	}
	return out
}

func TestTaskVisibility(t *testing.T) {
	f := newFixture(t)

	got := taskIDs(t, f.db, &f.ua)
	if !got[f.taskShared.ID] || got[f.taskSolo.ID] {
		t.Errorf("alpha member should see only the shared project's task, got %v", got)
	}

	got = taskIDs(t, f.db, &f.uc)
	if got[f.taskShared.ID] || !got[f.taskSolo.ID] {
		t.Errorf("gamma member should see only the solo project's task, got %v", got)
	}

	if got = taskIDs(t, f.db, &f.loner); len(got) != 0 {
		t.Errorf("sentinel-team worker should see no tasks, got %v", got)
	}

	if got = taskIDs(t, f.db, &f.admin); len(got) != 2 {
		t.Errorf("superuser should see every task, got %v", got)
	}
}

func TestTaskVisibility_CoarsePermission(t *testing.T) {
	f := newFixture(t)

	if err := models.GrantPerm(f.db, &f.loner, models.PermViewTask); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if got := taskIDs(t, f.db, &f.loner); len(got) != 2 {
		t.Errorf("view_task holder should see every task, got %v", got)
	}
}

func TestProjectVisibility(t *testing.T) {
	f := newFixture(t)

	var projects []models.Project
	visible := ForEntity(f.db, EntityProject).Visible(&f.ua)
	if err := visible(f.db.Model(&models.Project{})).Find(&projects).Error; err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].ID != f.shared.ID {
		t.Errorf("alpha member should see only the shared project, got %v", projects)
	}
}

func teamNames(t *testing.T, db *gorm.DB, u *models.Worker) []string {
	t.Helper()
	var teams []models.Team
	visible := ForEntity(db, EntityTeam).Visible(u)
	if err := visible(db.Model(&models.Team{})).Order("name").Find(&teams).Error; err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(teams))
	for _, team := range teams {
		names = append(names, team.Name)
	}
	return names
}

func TestTeamVisibility(t *testing.T) {
	f := newFixture(t)

	names := teamNames(t, f.db, &f.ua)
	if len(names) != 1 || names[0] != "Alpha" {
		t.Errorf("plain worker should see only their own team, got %v", names)
	}

	if names = teamNames(t, f.db, &f.loner); len(names) != 0 {
		t.Errorf("sentinel-team worker should see no teams, got %v", names)
	}

	names = teamNames(t, f.db, &f.admin)
	if len(names) != 3 {
		t.Errorf("superuser should see all real teams, got %v", names)
	}
	for _, name := range names {
		if name == models.DefaultTeamName {
			t.Error("sentinel team must never appear in listings")
		}
	}
}

func workerNames(t *testing.T, db *gorm.DB, u *models.Worker) map[string]bool {
	t.Helper()
	var workers []models.Worker
	visible := ForEntity(db, EntityWorker).Visible(u)
	if err := visible(db.Model(&models.Worker{})).Find(&workers).Error; err != nil {
		t.Fatal(err)
	}
	out := make(map[string]bool)
	for _, w := range workers {
		out[w.Username] = true
	}
	return out
}

func TestWorkerVisibility(t *testing.T) {
	f := newFixture(t)

	got := workerNames(t, f.db, &f.ua)
	if !got["ua"] || !got["boss"] {
		t.Errorf("worker should see own teammates, got %v", got)
	}
	if !got["ub"] {
		t.Errorf("worker should see members of collaborating teams, got %v", got)
	}
	if got["uc"] || got["loner"] {
		t.Errorf("worker should not see unrelated or sentinel-team workers, got %v", got)
	}

	got = workerNames(t, f.db, &f.loner)
	if len(got) != 1 || !got["loner"] {
		t.Errorf("sentinel-team worker should see only themself, got %v", got)
	}

	if got = workerNames(t, f.db, &f.admin); len(got) != 5 {
		t.Errorf("superuser should see every worker, got %v", got)
	}
}
