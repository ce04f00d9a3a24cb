package usecase

import "github.com/m-mizutani/goerr/v2"

// ErrEmptyConversation is returned when a chat request carries no turns
var ErrEmptyConversation = goerr.New("conversation has no turns")
