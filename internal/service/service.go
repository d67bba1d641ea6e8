package service

import (
	"github.com/hance08/bankd/internal/store"
)

type Config struct {
	DefaultCurrency string
}

type Service struct {
	Account *AccountService
	User    *UserService
}

func NewService(repo store.Repository, cfg Config) *Service {
	return &Service{
		Account: NewAccountService(repo, cfg),
		User:    NewUserService(repo),
	}
}
