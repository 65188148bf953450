package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
	"github.com/lunacare/lunacare-backend/internal/requestdata"
)

type AuthService interface {
	// Register creates the account and signs it in: a successful sign-up
	// leaves the caller authenticated, it never requires a second login step.
	Register(ctx context.Context, email, password, displayName string) (string, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration

	// Subscribe registers an identity observer. If an identity is already
	// signed in it is pushed immediately; afterwards every sign-in delivers
	// the identity and every sign-out delivers nil.
	Subscribe(fn func(identity *domain.Identity)) (cancel func())
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	bus           bus.Bus
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration

	subMu   sync.Mutex
	subs    map[int]func(*domain.Identity)
	nextSub int
	current *domain.Identity
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	eventBus bus.Bus,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		bus:           eventBus,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		subs:          make(map[int]func(*domain.Identity)),
	}
}

func (as *authService) Subscribe(fn func(identity *domain.Identity)) (cancel func()) {
	as.subMu.Lock()
	id := as.nextSub
	as.nextSub++
	as.subs[id] = fn
	current := as.current
	as.subMu.Unlock()

	if current != nil {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			as.subMu.Lock()
			delete(as.subs, id)
			as.subMu.Unlock()
		})
	}
}

func (as *authService) notify(identity *domain.Identity) {
	as.subMu.Lock()
	as.current = identity
	fns := make([]func(*domain.Identity), 0, len(as.subs))
	for _, fn := range as.subs {
		fns = append(fns, fn)
	}
	as.subMu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) Register(ctx context.Context, email, password, displayName string) (string, string, error) {
	email = normalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return "", "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return "", "", ErrWeakPassword
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return "", "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return "", "", ErrEmailInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hashed),
		DisplayName: displayName,
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, cErr := as.userRepo.Create(ctx, tx, user)
		return cErr
	}); err != nil {
		if errors.Is(err, repos.ErrDuplicateEmail) {
			return "", "", ErrEmailInUse
		}
		return "", "", fmt.Errorf("create user: %w", err)
	}

	return as.issueTokens(ctx, user)
}

func (as *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = normalizeEmail(email)

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", "", fmt.Errorf("fetch user by email: %w", err)
	}
	if user == nil {
		return "", "", ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ErrWrongPassword
	}

	return as.issueTokens(ctx, user)
}

// issueTokens mints an access/refresh pair, drops any expired tokens for the
// user, announces the sign-in to identity observers, and mirrors it onto the
// event bus.
func (as *authService) issueTokens(ctx context.Context, user *domain.User) (string, string, error) {
	var accessToken, refreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByUserID(ctx, tx, user.ID)
		if ftErr != nil {
			return fmt.Errorf("check user tokens: %w", ftErr)
		}
		var expiredIDs []uuid.UUID
		for _, tok := range existing {
			if tok.ExpiresAt.Before(time.Now()) {
				expiredIDs = append(expiredIDs, tok.ID)
			}
		}
		if len(expiredIDs) > 0 {
			if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, expiredIDs); dErr != nil {
				return fmt.Errorf("delete expired tokens: %w", dErr)
			}
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &domain.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, userToken); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	identity := user.Identity()
	as.notify(identity)
	if pErr := as.bus.Publish(ctx, realtime.Message{
		Channel: realtime.ChannelFor(realtime.CollectionAuth, user.ID),
		Event:   realtime.EventSignedIn,
		Data:    identity,
	}); pErr != nil {
		as.log.Warn("publish sign-in event failed", "user_id", user.ID, "error", pErr)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return "", "", fmt.Errorf("no request data in context")
	}
	if rd.RefreshToken == "" {
		return "", "", fmt.Errorf("refresh token missing from request data")
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
		if ftErr != nil {
			return fmt.Errorf("fetch refresh token: %w", ftErr)
		}
		if existing == nil {
			return fmt.Errorf("unknown refresh token")
		}
		if existing.ExpiresAt.Before(time.Now()) {
			if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dErr != nil {
				return fmt.Errorf("delete expired refresh token: %w", dErr)
			}
			return fmt.Errorf("refresh token expired")
		}

		user, uErr := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if uErr != nil {
			return fmt.Errorf("load user for refresh: %w", uErr)
		}
		if user == nil {
			return fmt.Errorf("no user for refresh token")
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		userToken := &domain.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, userToken); cErr != nil {
			return fmt.Errorf("create rotated token: %w", cErr)
		}
		if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dErr != nil {
			return fmt.Errorf("delete rotated-out token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data in context")
	}
	if rd.TokenString == "" {
		return fmt.Errorf("access token missing from request data")
	}

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByAccessToken(ctx, tx, rd.TokenString)
		if ftErr != nil {
			return fmt.Errorf("fetch user token: %w", ftErr)
		}
		if existing == nil {
			return nil
		}
		return as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID})
	})
	if err != nil {
		return err
	}

	as.notify(nil)
	if pErr := as.bus.Publish(ctx, realtime.Message{
		Channel: realtime.ChannelFor(realtime.CollectionAuth, rd.UserID),
		Event:   realtime.EventSignedOut,
	}); pErr != nil {
		as.log.Warn("publish sign-out event failed", "user_id", rd.UserID, "error", pErr)
	}
	return nil
}

func (as *authService) generateAccessToken(user *domain.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	var refreshToken string
	var sessionID uuid.UUID
	if found, ftErr := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString); ftErr == nil && found != nil {
		refreshToken = found.RefreshToken
		sessionID = found.ID
	}

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshToken,
		UserID:       userID,
		SessionID:    sessionID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
