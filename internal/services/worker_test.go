package services

import (
	"testing"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/query"
)

func TestWorkerRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkerService(db)

	worker, err := svc.Register(&RegisterWorkerRequest{
		Username:  "newbie",
		Password:  "secret99",
		Email:     "n@example.com",
		FirstName: "New",
		LastName:  "Bee",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if worker.Password == "secret99" {
		t.Error("password must be stored hashed")
	}
	if !models.IsDefaultTeam(worker.TeamID) {
		t.Error("self-registered worker should land in the sentinel team")
	}
	if worker.Role != models.RoleUser {
		t.Errorf("role = %q, expected %q", worker.Role, models.RoleUser)
	}

	if _, err := svc.Register(&RegisterWorkerRequest{
		Username:  "newbie",
		Password:  "other",
		Email:     "x@example.com",
		FirstName: "Du",
		LastName:  "Pe",
	}); err == nil {
		t.Fatal("duplicate username should be rejected")
	}
}

func TestWorkerRegister_GrantsNoTeamVisibility(t *testing.T) {
	f := newTaskFixture(t)
	svc := NewWorkerService(f.db)

	if _, err := f.svc.Create(&f.member, &CreateTaskRequest{Name: "internal work", ProjectID: f.project.ID}); err != nil {
		t.Fatal(err)
	}

	joined, err := svc.Register(&RegisterWorkerRequest{
		Username:  "outsider",
		Password:  "secret99",
		Email:     "o@example.com",
		FirstName: "Out",
		LastName:  "Sider",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if joined.TeamID == f.team.ID {
		t.Fatal("registration must not place the account in an existing team")
	}
	if !models.IsDefaultTeam(joined.TeamID) {
		t.Errorf("fresh account should sit in the sentinel team, got team %d", joined.TeamID)
	}

	tasks, err := f.svc.List(joined, &query.TaskFilterParams{}, 1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if tasks.Total != 0 {
		t.Errorf("fresh account should see no team tasks, got %d", tasks.Total)
	}
}

func TestWorkerUpdate_TeamChangeNeedsPermission(t *testing.T) {
	f := newTaskFixture(t)
	svc := NewWorkerService(f.db)

	loner, err := svc.Register(&RegisterWorkerRequest{
		Username:  "loner",
		Password:  "secret99",
		Email:     "l@example.com",
		FirstName: "Lo",
		LastName:  "Ner",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(loner, loner.ID, &UpdateWorkerRequest{TeamID: &f.team.ID}); err == nil {
		t.Fatal("self-service team change should be rejected")
	}
	active := false
	if _, err := svc.Update(loner, loner.ID, &UpdateWorkerRequest{IsActive: &active}); err == nil {
		t.Fatal("self-service active flag change should be rejected")
	}

	var reloaded models.Worker
	if err := f.db.First(&reloaded, loner.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.TeamID == f.team.ID || !reloaded.IsActive {
		t.Error("rejected update must leave team and active flag untouched")
	}

	if _, err := svc.Update(loner, loner.ID, &UpdateWorkerRequest{Email: "new@example.com"}); err != nil {
		t.Fatalf("plain profile self-update should succeed: %v", err)
	}

	admin := models.Worker{Username: "boss", Email: "b@x", FirstName: "B", LastName: "Oss", Role: models.RoleAdmin, TeamID: f.team.ID}
	if err := f.db.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(&admin, loner.ID, &UpdateWorkerRequest{TeamID: &f.team.ID}); err != nil {
		t.Fatalf("superuser team assignment should succeed: %v", err)
	}

	if err := f.db.First(&reloaded, loner.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.TeamID != f.team.ID {
		t.Errorf("superuser update should move the worker into team %d, got %d", f.team.ID, reloaded.TeamID)
	}
}

func TestWorkerList_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkerService(db)

	team := models.Team{Name: "Filter"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"alice", "alicia", "bob"} {
		w := models.Worker{Username: name, Email: name + "@x", FirstName: name, LastName: "T", TeamID: team.ID}
		if err := db.Create(&w).Error; err != nil {
			t.Fatal(err)
		}
	}
	var requester models.Worker
	db.Where("username = ?", "bob").First(&requester)

	resp, err := svc.List(&requester, &query.WorkerFilterParams{UsernameContains: "ALI"}, 1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("case-insensitive contains should match 2 workers, got %d", resp.Total)
	}
}

func TestWorkerDelete_Cascades(t *testing.T) {
	f := newTaskFixture(t)
	svc := NewWorkerService(f.db)

	task, err := f.svc.Create(&f.member, &CreateTaskRequest{Name: "orphaned", ProjectID: f.project.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ToggleAssignee(&f.member, task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AddComment(&f.member, task.ID, &AddCommentRequest{Content: "note"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(f.member.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var reloaded models.Task
	if err := f.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("task should survive its creator: %v", err)
	}
	if reloaded.CreatorID != nil {
		t.Error("creator reference should be cleared")
	}

	var comments, assignments int64
	f.db.Model(&models.Comment{}).Where("worker_id = ?", f.member.ID).Count(&comments)
	f.db.Table("task_assignees").Where("worker_id = ?", f.member.ID).Count(&assignments)
	if comments != 0 || assignments != 0 {
		t.Errorf("comments and assignments should be gone, got %d / %d", comments, assignments)
	}
}
