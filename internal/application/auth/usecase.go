package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/feedback-api/internal/application/dto"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/domain/repository"
	"github.com/jhoicas/feedback-api/pkg/jwt"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// CompanyRegistrar alta de empresas (lo implementa *usecase.CompanyUseCase).
type CompanyRegistrar interface {
	Register(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
}

// AuthUseCase casos de uso de autenticación: alta de cuenta, login y administradores iniciales.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	companies CompanyRegistrar
	jwtCfg    JWTConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companies CompanyRegistrar, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, companies: companies, jwtCfg: jwtCfg, log: log.Component("auth"), now: time.Now}
}

// Register crea la empresa (Trial, plan gratuito) y su usuario con rol company.
// El email de la cuenta es el contacto administrativo de la empresa.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.NewValidationError("email")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password")
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("user", "email")
	}

	company, err := uc.companies.Register(ctx, dto.CreateCompanyRequest{
		Name:         in.CompanyName,
		AdminContact: email,
		Employees:    in.Employees,
	})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	companyID := company.ID
	user, err := uc.newUser(email, in.Password, name, entity.RoleCompany, &companyID)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Warn().Int64("company_id", companyID).Str("email", email).Msg("email registrado en paralelo; empresa sin usuario")
			return nil, domain.NewConflictError("user", "email")
		}
		return nil, err
	}

	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterResponse{
		Token:   token,
		User:    *usecase.UserToResponse(user),
		Company: *company,
	}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrInactiveAccount
	}
	token, err := uc.token(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.UserToResponse(user),
	}, nil
}

// EnsureAdmin crea el administrador de plataforma si no existe. Idempotente.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password, name string) (*dto.UserResponse, bool, error) {
	email = normalizeEmail(email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return usecase.UserToResponse(existing), false, nil
	}
	if len(password) < 8 {
		return nil, false, domain.NewValidationError("password")
	}
	user, err := uc.newUser(email, password, name, entity.RoleAdmin, nil)
	if err != nil {
		return nil, false, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	uc.log.Info().Str("email", email).Msg("administrador creado")
	return usecase.UserToResponse(user), true, nil
}

func (uc *AuthUseCase) newUser(email, password, name, role string, companyID *int64) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (uc *AuthUseCase) token(u *entity.User) (string, error) {
	var companyID int64
	if u.CompanyID != nil {
		companyID = *u.CompanyID
	}
	return jwt.Generate(uc.jwtCfg.Secret, u.ID, companyID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
