package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/fitkeeper/fitkeeper/config"
	"github.com/fitkeeper/fitkeeper/middleware"
	"github.com/fitkeeper/fitkeeper/models"
	"github.com/fitkeeper/fitkeeper/services"
	"github.com/fitkeeper/fitkeeper/utils"
)

var validProviders = map[string]bool{
	"kakao":  true,
	"google": true,
	"naver":  true,
}

// Provider endpoints not shipped with the oauth2 package.
var (
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:  "https://kauth.kakao.com/oauth/authorize",
		TokenURL: "https://kauth.kakao.com/oauth/token",
	}
	naverEndpoint = oauth2.Endpoint{
		AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
		TokenURL: "https://nid.naver.com/oauth2.0/token",
	}
)

// AuthController handles login, both the direct identity endpoint used by
// mobile clients and the browser OAuth redirect flow.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Authenticate resolves a user from a provider identity, creating the user
// on first sight, and issues a JWT. Login and signup are the same call.
func (a *AuthController) Authenticate(ctx *gin.Context) {
	var req struct {
		Provider   string `json:"provider" binding:"required"`
		ProviderID string `json:"provider_id" binding:"required"`
		Email      string `json:"email"`
		Name       string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "provider and provider_id are required")
		return
	}
	if !validProviders[req.Provider] {
		utils.Error(ctx, http.StatusBadRequest, 40002, "unsupported provider, expected one of: kakao, google, naver")
		return
	}

	user, err := a.resolveUser(req.Provider, req.ProviderID, req.Email, req.Name)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to resolve user")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"email": user.Email,
		"name":  user.Name,
	})
}

// OAuthAuthorizeURL generates a provider-specific authorization URL.
func (a *AuthController) OAuthAuthorizeURL(ctx *gin.Context) {
	provider := strings.ToLower(ctx.Param("provider"))
	oc, err := a.oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, err.Error())
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	utils.Success(ctx, gin.H{
		"authorization_url": oc.AuthCodeURL(state),
		"state":             state,
	})
}

// OAuthCallback completes the browser login. Errors do not surface as JSON:
// the browser is mid-redirect, so every outcome is reported through query
// parameters on the frontend callback page.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := strings.ToLower(ctx.Param("provider"))

	if msg := ctx.Query("error"); msg != "" {
		a.redirectWithError(ctx, "login cancelled or rejected by provider")
		return
	}

	code := ctx.Query("code")
	if code == "" {
		a.redirectWithError(ctx, "missing authorization code")
		return
	}
	if state := ctx.Query("state"); state != "" && !utils.ConsumeState(state) {
		a.redirectWithError(ctx, "invalid or expired state")
		return
	}

	oc, err := a.oauthConfig(provider)
	if err != nil {
		a.redirectWithError(ctx, err.Error())
		return
	}

	token, err := oc.Exchange(context.Background(), code)
	if err != nil {
		utils.Sugar.Warnf("oauth exchange failed provider=%s err=%v", provider, err)
		a.redirectWithError(ctx, "failed to exchange authorization code")
		return
	}

	profile, err := fetchProviderProfile(provider, token)
	if err != nil {
		utils.Sugar.Warnf("oauth profile fetch failed provider=%s err=%v", provider, err)
		a.redirectWithError(ctx, "failed to fetch user profile")
		return
	}

	user, err := a.resolveUser(provider, profile.ID, profile.Email, profile.Name)
	if err != nil {
		a.redirectWithError(ctx, "failed to persist user")
		return
	}

	// Login marks today's attendance; a missed mark must not block login.
	services.MarkGrassTodayQuiet(a.db, user.ID, services.GrassAttendance)

	jwtToken, err := a.issueToken(user)
	if err != nil {
		a.redirectWithError(ctx, "failed to generate token")
		return
	}

	q := url.Values{}
	q.Set("token", jwtToken)
	q.Set("success", "true")
	q.Set("email", user.Email)
	q.Set("name", user.Name)
	ctx.Redirect(http.StatusFound, config.Get().FrontendBaseURL+"/auth/callback?"+q.Encode())
}

// Me returns the current authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, gin.H{
		"id":         user.ID,
		"provider":   user.Provider,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	})
}

// Logout acknowledges logout. Tokens are stateless; the client discards its
// copy, so this endpoint always succeeds.
func (a *AuthController) Logout(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"message": "logged out"})
}

func (a *AuthController) resolveUser(provider, providerID, email, name string) (*models.User, error) {
	var user models.User
	err := a.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = models.User{
			Provider:   provider,
			ProviderID: providerID,
			Email:      strings.TrimSpace(email),
			Name:       strings.TrimSpace(name),
		}
		if err := a.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	updates := map[string]interface{}{}
	if e := strings.TrimSpace(email); e != "" && e != user.Email {
		updates["email"] = e
		user.Email = e
	}
	if n := strings.TrimSpace(name); n != "" && n != user.Name {
		updates["name"] = n
		user.Name = n
	}
	if len(updates) > 0 {
		if err := a.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (a *AuthController) issueToken(user *models.User) (string, error) {
	expire := time.Duration(config.Get().JWTExpireHr) * time.Hour
	return utils.GenerateToken(user.ID, user.Provider, user.ProviderID, expire)
}

func (a *AuthController) redirectWithError(ctx *gin.Context, message string) {
	q := url.Values{}
	q.Set("success", "false")
	q.Set("error", message)
	ctx.Redirect(http.StatusFound, config.Get().FrontendBaseURL+"/auth/callback?"+q.Encode())
}

func (a *AuthController) oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	redirect := fmt.Sprintf("%s/api/auth/%s/callback", cfg.BackendBaseURL, provider)
	switch provider {
	case "kakao":
		if cfg.KakaoClientID == "" {
			return nil, fmt.Errorf("kakao oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.KakaoClientID,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"profile_nickname", "account_email"},
			Endpoint:     kakaoEndpoint,
		}, nil
	case "naver":
		if cfg.NaverClientID == "" || cfg.NaverClientSecret == "" {
			return nil, fmt.Errorf("naver oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.NaverClientID,
			ClientSecret: cfg.NaverClientSecret,
			RedirectURL:  redirect,
			Endpoint:     naverEndpoint,
		}, nil
	case "google":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("google oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

type providerProfile struct {
	ID    string
	Email string
	Name  string
}

func fetchProviderProfile(provider string, token *oauth2.Token) (*providerProfile, error) {
	switch provider {
	case "kakao":
		return fetchKakaoUser(token)
	case "naver":
		return fetchNaverUser(token)
	case "google":
		return fetchGoogleUser(token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func fetchKakaoUser(token *oauth2.Token) (*providerProfile, error) {
	req, _ := http.NewRequest("GET", "https://kapi.kakao.com/v2/user/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
		Properties struct {
			Nickname string `json:"nickname"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	providerID := fmt.Sprintf("%d", payload.ID)
	name := fallback(payload.KakaoAccount.Profile.Nickname, payload.Properties.Nickname)
	if name == "" && len(providerID) >= 4 {
		name = "kakao user " + providerID[len(providerID)-4:]
	}

	return &providerProfile{
		ID:    providerID,
		Email: payload.KakaoAccount.Email,
		Name:  name,
	}, nil
}

func fetchNaverUser(token *oauth2.Token) (*providerProfile, error) {
	req, _ := http.NewRequest("GET", "https://openapi.naver.com/v1/nid/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver user info request failed: %s", resp.Status)
	}

	var payload struct {
		Response struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Name     string `json:"name"`
			Nickname string `json:"nickname"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &providerProfile{
		ID:    payload.Response.ID,
		Email: payload.Response.Email,
		Name:  fallback(payload.Response.Name, payload.Response.Nickname),
	}, nil
}

func fetchGoogleUser(token *oauth2.Token) (*providerProfile, error) {
	req, _ := http.NewRequest("GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &providerProfile{
		ID:    payload.ID,
		Email: payload.Email,
		Name:  fallback(payload.Name, payload.Email),
	}, nil
}

func fallback(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
