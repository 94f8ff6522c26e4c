package session

// Page names a screen. Pages mirror the collaborator's routes.
type Page string

const (
	PageTop           Page = "/"
	PageLogin         Page = "/login"
	PageCreateAccount Page = "/create-account"
	PageLibrary       Page = "/library"
)

// Navigator switches the visible page.
type Navigator interface {
	Redirect(page Page)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(page Page)

func (f NavigatorFunc) Redirect(page Page) { f(page) }
