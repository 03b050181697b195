package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("invalid or expired session")

	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already in use")
	ErrEmailTaken      = errors.New("email already in use")
	ErrNotAccountOwner = errors.New("only the account owner can update the user")

	ErrGroupNotFound      = errors.New("group not found")
	ErrNotMasterUpdate    = errors.New("only the group master can update the group")
	ErrNotMasterDelete    = errors.New("only the group master can delete the group")
	ErrNotMasterPlayers   = errors.New("only the group master can remove players")
	ErrMasterNotRemovable = errors.New("the master cannot be removed from the group")

	ErrRequestNotFound  = errors.New("group request not found")
	ErrRequestExists    = errors.New("group request already exists")
	ErrAlreadyPlayer    = errors.New("user is already a player in this group")
	ErrNotMasterRequest = errors.New("only the group master can answer group requests")

	ErrResetTokenNotFound = errors.New("token not found")
	ErrTokenExpired       = errors.New("token has expired")
)
