package cli

import (
	"context"
	"errors"
	"fmt"

	"pharmalink/pos/internal/api"
)

func (a *App) profile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "show":
		return a.profileShow(ctx)
	case "edit":
		return a.profileEdit(ctx)
	case "password":
		return a.profilePassword(ctx)
	default:
		return fmt.Errorf("unknown profile command %q", sub)
	}
}

func (a *App) profileShow(ctx context.Context) error {
	user, err := a.Client.Profile(ctx)
	if err != nil {
		// Some deployments only expose the auth verification endpoint.
		user, err = a.Client.Me(ctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
	}
	a.printf("Username:  %s\n", user.Username)
	a.printf("Email:     %s\n", user.Email)
	if user.PharmacyName != "" {
		a.printf("Pharmacy:  %s\n", user.PharmacyName)
	}
	if user.Phone != "" {
		a.printf("Phone:     %s\n", user.Phone)
	}
	if user.Role != "" {
		a.printf("Role:      %s\n", user.Role)
	}
	if user.LastLogin != "" {
		a.printf("Last seen: %s\n", user.LastLogin)
	}
	return nil
}

func (a *App) profileEdit(ctx context.Context) error {
	current, err := a.Client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	def := func(label, cur string) string {
		value := a.prompt(fmt.Sprintf("%s [%s]: ", label, cur))
		if value == "" {
			return cur
		}
		return value
	}

	updated, err := a.Client.UpdateProfile(ctx, api.ProfileInput{
		Username:     def("Username", current.Username),
		Email:        def("Email", current.Email),
		PharmacyName: def("Pharmacy name", current.PharmacyName),
		Phone:        def("Phone", current.Phone),
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	a.printf("Profile updated for %s.\n", updated.Username)
	return nil
}

func (a *App) profilePassword(ctx context.Context) error {
	current, err := a.promptRequired("Current password: ")
	if err != nil {
		return err
	}
	next, err := a.promptRequired("New password: ")
	if err != nil {
		return err
	}
	confirm, err := a.promptRequired("Confirm new password: ")
	if err != nil {
		return err
	}
	if next != confirm {
		return errors.New("new passwords do not match")
	}
	if err := a.Client.ChangePassword(ctx, current, next); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	a.printf("Password changed successfully.\n")
	return nil
}
