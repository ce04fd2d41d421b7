package service

import (
	"time"

	"conduit/internal/config"
	"conduit/pkg/utils"
)

// CredentialService 密码摘要与会话 token
type CredentialService struct {
	secret string
	issuer string
	now    func() time.Time
}

func NewCredentialService(cfg *config.JWTConfig) *CredentialService {
	return &CredentialService{secret: cfg.Secret, issuer: cfg.Issuer, now: time.Now}
}

func (s *CredentialService) HashPassword(plaintext string) (string, error) {
	return utils.HashPassword(plaintext)
}

func (s *CredentialService) VerifyPassword(plaintext, digest string) bool {
	return utils.VerifyPassword(plaintext, digest)
}

// IssueToken 为用户签发 24 小时有效的 token
func (s *CredentialService) IssueToken(userID int64) (string, error) {
	return utils.GenerateToken(userID, s.secret, s.issuer, s.now())
}

// VerifyToken 校验 token 并返回用户 ID
func (s *CredentialService) VerifyToken(token string) (int64, error) {
	claims, err := utils.ParseToken(token, s.secret, s.issuer)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}
