package handler

import "net/http"

type statusResponse int

func (s statusResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(int(s))
	return nil
}

// Empty answers 204 No Content.
func Empty() Response {
	return statusResponse(http.StatusNoContent)
}

func EmptyWithStatus(status int) Response {
	return statusResponse(status)
}

type redirectResponse struct {
	url  string
	code int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.url, rr.code)
	return nil
}

// Redirect answers 303 See Other.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode redirects with a 3xx code of the caller's choice, e.g. the
// 302 sent after following an email verification link.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}
