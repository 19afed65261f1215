package httpx

import (
	"context"
	"net/http"
)

// Home renders the landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "MedScan", PageTitle: "Welcome to MedScan", CurrentPage: PageHome}})
}

// Services lists what the clinic offers together with the public doctor directory.
func (h *UIHandlers) Services(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Services", PageTitle: "Our Services", CurrentPage: PageServices},
		Fetch: func(ctx context.Context, data map[string]any) error {
			doctors, err := h.Directory.Doctors(ctx)
			if err != nil {
				return err
			}
			data["Doctors"] = doctors
			return nil
		},
	})
}

func (h *UIHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "About", PageTitle: "About MedScan", CurrentPage: PageAbout}})
}

func (h *UIHandlers) Contact(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "Contact", PageTitle: "Contact Us", CurrentPage: PageContact}})
}
