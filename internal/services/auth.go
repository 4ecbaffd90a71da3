package services

import (
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/utils"
	"github.com/taskhive/taskhive/pkg/logger"
	"gorm.io/gorm"
)

type AuthService struct {
	db          *gorm.DB
	ldapService *LDAPService
	jwtConfig   *config.JWTConfig
	ldapEnabled bool
}

func NewAuthService(db *gorm.DB, ldapCfg *config.LDAPConfig, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:          db,
		ldapService: NewLDAPService(ldapCfg),
		jwtConfig:   jwtCfg,
		ldapEnabled: ldapCfg.Enabled,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	AuthType string `json:"auth_type"` // local, ldap
}

type LoginResponse struct {
	Token    string         `json:"token"`
	Worker   *models.Worker `json:"worker"`
	ExpireAt time.Time      `json:"expire_at"`
}

// Login authenticates a worker and returns a JWT token.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var worker *models.Worker
	var err error

	if req.AuthType == "" {
		req.AuthType = "local"
	}

	switch req.AuthType {
	case "local":
		worker, err = s.localAuth(req.Username, req.Password)
	case "ldap":
		worker, err = s.ldapAuth(req.Username, req.Password)
	default:
		return nil, errors.New("invalid auth type")
	}
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(worker.ID, worker.Username, worker.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	worker.LastLogin = &now
	s.db.Save(worker)

	return &LoginResponse{
		Token:    token,
		Worker:   worker,
		ExpireAt: now.Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
	}, nil
}

func (s *AuthService) localAuth(username, password string) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.Where("username = ? AND auth_type = ?", username, "local").First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid username or password")
		}
		return nil, err
	}
	if !worker.IsActive {
		return nil, errors.New("account is disabled")
	}
	if !utils.CheckPassword(password, worker.Password) {
		return nil, errors.New("invalid username or password")
	}
	return &worker, nil
}

// ldapAuth binds against the directory and provisions a local worker row on
// first login. LDAP workers land in the sentinel team until assigned.
func (s *AuthService) ldapAuth(username, password string) (*models.Worker, error) {
	ldapUser, err := s.ldapService.Authenticate(username, password)
	if err != nil {
		return nil, err
	}

	var worker models.Worker
	err = s.db.Where("username = ? AND auth_type = ?", username, "ldap").First(&worker).Error
	if err == nil {
		if !worker.IsActive {
			return nil, errors.New("account is disabled")
		}
		return &worker, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	worker = models.Worker{
		Username:  username,
		Email:     ldapUser.Email,
		FirstName: ldapUser.FirstName,
		LastName:  ldapUser.LastName,
		Role:      models.RoleUser,
		AuthType:  "ldap",
		IsActive:  true,
	}
	if err := s.db.Create(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetWorkerByID loads a worker with their team and position preloaded.
func (s *AuthService) GetWorkerByID(id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.Preload("Team").Preload("Position").First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(workerID uint, req *ChangePasswordRequest) error {
	var worker models.Worker
	if err := s.db.First(&worker, workerID).Error; err != nil {
		return err
	}
	if worker.AuthType != "local" {
		return errors.New("password is managed by the directory")
	}
	if !utils.CheckPassword(req.OldPassword, worker.Password) {
		return errors.New("old password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&worker).Update("password", hash).Error
}

// CreateAdminIfNotExists seeds the default superuser on first startup.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.Worker{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := models.Worker{
		Username:  "admin",
		Password:  hash,
		Email:     "admin@localhost",
		FirstName: "Site",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
		AuthType:  "local",
		IsActive:  true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warn().Msg("Created default admin user (admin/admin123), change the password immediately")
	return nil
}
