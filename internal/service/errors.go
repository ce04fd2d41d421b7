package service

import (
	"errors"

	"conduit/pkg/utils"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("email or username has already been taken")
	ErrUsernameTaken     = errors.New("username has already been taken")
	ErrEmailTaken        = errors.New("email has already been taken")
	ErrInvalidCredential = errors.New("email or password is incorrect")
	ErrEmptyUpdate       = errors.New("at least one field is required")
	ErrBlankUsername     = errors.New("username must not be blank")
	ErrCannotFollowSelf  = errors.New("you cannot follow yourself")

	ErrArticleNotFound  = errors.New("article not found")
	ErrArticleForbidden = errors.New("you are not the author of this article")
	ErrSlugConflict     = errors.New("article slug has already been taken, please retry")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("you are not allowed to modify this comment")
	ErrInvalidEmotion   = errors.New("invalid emotion type")

	ErrImageUnavailable = errors.New("image upload is not enabled")

	ErrInvalidToken = utils.ErrInvalidToken
	ErrExpiredToken = utils.ErrExpiredToken
)
