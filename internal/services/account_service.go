package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tabi/internal/models/db_models"
	"tabi/internal/models/request_models"
	"tabi/internal/models/response_models"
	"tabi/internal/repositories"
	"tabi/pkg/utils"
)

// VerificationCodeStore keeps short-lived single-use codes.
type VerificationCodeStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// GetAndConsume returns the value and removes it. ok is false when the
	// key is unknown or expired.
	GetAndConsume(ctx context.Context, key string) (value string, ok bool, err error)
}

const signupCodeLength = 6

type AccountServiceInterface interface {
	RequestSignupCode(ctx context.Context, req request_models.SignupCodeRequest) (*response_models.SignupCodeResponse, error)
	Register(ctx context.Context, req request_models.SignUpRequest) (*response_models.AccountLoginResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error)
}

type AccountService struct {
	userRepo    repositories.UserRepository
	codes       VerificationCodeStore
	invitations InvitationServiceInterface
	mailer      IMailService
	tokens      *utils.TokenIssuer
	log         *zap.Logger
	codeTTL     time.Duration
}

func NewAccountService(
	userRepo repositories.UserRepository,
	codes VerificationCodeStore,
	invitations InvitationServiceInterface,
	mailer IMailService,
	tokens *utils.TokenIssuer,
	log *zap.Logger,
	codeTTL time.Duration,
) AccountServiceInterface {
	return &AccountService{
		userRepo:    userRepo,
		codes:       codes,
		invitations: invitations,
		mailer:      mailer,
		tokens:      tokens,
		log:         log,
		codeTTL:     codeTTL,
	}
}

func signupCodeKey(email string) string {
	return "signup:" + email
}

func (a *AccountService) RequestSignupCode(ctx context.Context, req request_models.SignupCodeRequest) (*response_models.SignupCodeResponse, error) {
	email := db_models.NormalizeEmail(req.Email)
	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	code, err := utils.GenerateOtpCode(signupCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate signup code: %w", err)
	}
	if err := a.codes.Put(ctx, signupCodeKey(email), code, a.codeTTL); err != nil {
		return nil, utils.DBError(err)
	}
	if err := a.mailer.SendVerificationCode(email, code); err != nil {
		a.log.Error("verification code not sent", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("send verification code: %w", err)
	}
	return &response_models.SignupCodeResponse{Email: email, ExpiresIn: int64(a.codeTTL.Seconds())}, nil
}

// Register creates the account once the e-mailed code checks out. An
// invitation token given at sign up is accepted on a best-effort basis.
func (a *AccountService) Register(ctx context.Context, req request_models.SignUpRequest) (*response_models.AccountLoginResponse, error) {
	email := db_models.NormalizeEmail(req.Email)
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname: %w", utils.ErrInvalidInput)
	}

	if existing, err := a.userRepo.FindByEmail(ctx, email); err != nil {
		return nil, utils.DBError(err)
	} else if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}
	if existing, err := a.userRepo.FindByNickname(ctx, nickname); err != nil {
		return nil, utils.DBError(err)
	} else if existing != nil {
		return nil, utils.ErrNicknameTaken
	}

	code, ok, err := a.codes.GetAndConsume(ctx, signupCodeKey(email))
	if err != nil {
		return nil, utils.DBError(err)
	}
	if !ok || code != strings.TrimSpace(req.Code) {
		return nil, utils.ErrInvalidVerification
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &db_models.User{Email: email, Nickname: nickname, PasswordHash: hashed}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, utils.DBError(err)
	}

	resp, err := a.loginResponse(user)
	if err != nil {
		return nil, err
	}
	if token := strings.TrimSpace(req.InvitationToken); token != "" {
		accepted, err := a.invitations.Accept(ctx, token, user.ID)
		if err != nil {
			a.log.Warn("invitation not accepted after sign up",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		} else {
			resp.AcceptedPlanID = accepted.PlanID
			resp.RedirectPath = accepted.RedirectPath
		}
	}
	return resp, nil
}

func (a *AccountService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	start := time.Now()

	user, err := a.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	resp, err := a.loginResponse(user)
	if err != nil {
		return nil, err
	}
	a.log.Debug("login", zap.String("user_id", user.ID.String()), zap.Duration("took", time.Since(start)))
	return resp, nil
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.DBError(err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (a *AccountService) loginResponse(user *db_models.User) (*response_models.AccountLoginResponse, error) {
	token, err := a.tokens.CreateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &response_models.AccountLoginResponse{Token: token, User: toUserResponse(user)}, nil
}
