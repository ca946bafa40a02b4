package cli

import (
	"context"
	"errors"

	"pharmalink/pos/internal/api"
)

func (a *App) login(ctx context.Context) error {
	username, err := a.promptRequired("Username: ")
	if err != nil {
		return err
	}
	password, err := a.promptRequired("Password: ")
	if err != nil {
		return err
	}

	user, err := a.Client.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	a.printf("Welcome back, %s.\n", user.Username)
	return nil
}

func (a *App) register(ctx context.Context) error {
	pharmacy, err := a.promptRequired("Pharmacy name: ")
	if err != nil {
		return err
	}
	username, err := a.promptRequired("Username: ")
	if err != nil {
		return err
	}
	email, err := a.promptRequired("Email: ")
	if err != nil {
		return err
	}
	password, err := a.promptRequired("Password: ")
	if err != nil {
		return err
	}
	confirm, err := a.promptRequired("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	phone := a.prompt("Phone number (optional): ")

	user, err := a.Client.Register(ctx, api.Registration{
		Username:     username,
		Email:        email,
		Password:     password,
		PharmacyName: pharmacy,
		Phone:        phone,
	})
	if err != nil {
		return err
	}
	a.printf("Account created for %s. You are signed in.\n", user.Username)
	return nil
}

func (a *App) logout() error {
	if err := a.Client.Logout(); err != nil {
		return err
	}
	a.printf("Signed out.\n")
	return nil
}
