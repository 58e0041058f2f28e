package service

import (
	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

// Ensure returns the account for id, provisioning it on first use.
func (s *UserService) Ensure(id int64) (*model.User, error) {
	return s.userRepository.Ensure(id)
}
