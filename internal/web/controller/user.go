package controller

import (
	"net/http"

	"harrow/internal/auth"
	"harrow/internal/models"
	"harrow/internal/web/viewmodels"
)

// User provides the user provisioning and self-service handlers.
type User struct {
	Common
}

// Register registers the user routes
func (u *User) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users/new", u.new)
	mux.HandleFunc("POST /users/new", u.create)
	mux.HandleFunc("GET /users/edit", u.edit)
	mux.HandleFunc("POST /users/edit", u.update)
}

func (u *User) new(w http.ResponseWriter, r *http.Request) {
	u.render(w, "edit_user.html", viewmodels.UserFormData{
		BaseData: u.base(r, "New user"),
		NewUser:  true,
		PostTo:   "/users/new",
	})
}

func (u *User) create(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	name := r.FormValue("name")
	password := r.FormValue("password")
	confirm := r.FormValue("password-confirm")

	if name == "" && password == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := viewmodels.UserFormData{
		BaseData: u.base(r, "New user"),
		NewUser:  true,
		PostTo:   "/users/new",
	}
	if password != confirm {
		data.Message = "Password is difference from Password(Confirm)."
		u.render(w, "edit_user.html", data)
		return
	}

	if err := u.Users.Add(r.Context(), email, name, password, models.LevelWriter); err != nil {
		data.Message = "Could not create the user."
		u.render(w, "edit_user.html", data)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (u *User) edit(w http.ResponseWriter, r *http.Request) {
	u.render(w, "edit_user.html", viewmodels.UserFormData{
		BaseData: u.base(r, "Edit user"),
		PostTo:   "/users/edit",
	})
}

func (u *User) update(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")
	confirm := r.FormValue("password-confirm")

	data := viewmodels.UserFormData{
		BaseData: u.base(r, "Edit user"),
		PostTo:   "/users/edit",
	}
	if password != confirm {
		data.Message = "Password is difference from Password(Confirm)."
		u.render(w, "edit_user.html", data)
		return
	}

	uid, _ := auth.UserID(r.Context())
	if err := u.Users.Update(r.Context(), uid, &password, nil); err != nil {
		u.Log.Error("updating user failed", "uid", uid, "error", err)
		data.Message = "Could not update the user."
		u.render(w, "edit_user.html", data)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
