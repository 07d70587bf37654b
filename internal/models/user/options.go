package models

func WithUsername(username string) UserOption {
	return func(u *User) { u.Username = username }
}

func WithEmail(email string) UserOption {
	return func(u *User) { u.Email = email }
}

func WithFullName(name string) UserOption {
	return func(u *User) { u.FullName = name }
}

func WithPassword(hashed string) UserOption {
	return func(u *User) { u.Password = hashed }
}

func WithOTP(hashedOTP string) UserOption {
	return func(u *User) { u.OTP = hashedOTP }
}

func WithIsActive(active bool) UserOption {
	return func(u *User) { u.IsActive = active }
}

func WithIsVerified(verified bool) UserOption {
	return func(u *User) { u.IsVerified = verified }
}

func WithIsAdmin(admin bool) UserOption {
	return func(u *User) { u.IsAdmin = admin }
}
