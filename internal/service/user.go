package service

import (
	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/validation"
)

type UserService struct {
	repo store.Repository
}

func NewUserService(repo store.Repository) *UserService {
	return &UserService{repo: repo}
}

func (us *UserService) CreateUser(email, firstName, lastName string) (*store.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(lastName); err != nil {
		return nil, err
	}

	return us.repo.CreateUser(email, firstName, lastName)
}

func (us *UserService) GetUserByEmail(email string) (*store.User, error) {
	return us.repo.GetUserByEmail(email)
}

func (us *UserService) GetUserByID(id int64) (*store.User, error) {
	return us.repo.GetUserByID(id)
}
