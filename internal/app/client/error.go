package client

import "errors"

var (
	ErrInvalidCredentials = errors.New("неверный пароль")
	ErrNotLoggedIn        = errors.New("вход не выполнен")
	ErrAdminOnly          = errors.New("операция доступна только администратору")
)
