package util

import "errors"

var (
	ErrUserNotFound             = errors.New("Brugeren findes ikke")
	ErrEmailRegistered          = errors.New("Denne e-mail er allerede registreret")
	ErrInvalidCredentials       = errors.New("Forkert e-mail eller adgangskode")
	ErrTitleRequired            = errors.New("Titel er påkrævet.")
	ErrInvalidStatus            = errors.New("invalid goal status")
	ErrGoalNotFound             = errors.New("goal not found")
	ErrPersistence              = errors.New("persistence failure")
	ErrStoreUnavailable         = errors.New("store unavailable")
	ErrAttachmentRead           = errors.New("Kunne ikke læse filen. Prøv igen.")
	ErrOversizeUnconfirmed      = errors.New("Filen er større end 4 MB og kan være svær at gemme lokalt. Fortsæt?")
	ErrNoAttachment             = errors.New("goal has no attachment")
	ErrNotPDF                   = errors.New("Kun PDF-filer kan vedhæftes.")
	ErrSupervisorCodeInvalid    = errors.New("Ugyldig vejlederkode")
	ErrSupervisorSessionExpired = errors.New("Vejledersession er udløbet. Log venligst ind igen.")
	ErrResetTokenInvalid        = errors.New("Ugyldigt eller udløbet nulstillingslink")
)
