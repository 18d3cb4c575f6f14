package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

const welcomeMessage = "Bienvenido a la API de Mercado Libre"

type accountResponse struct {
	ID        ID        `json:"_id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type accountSummary struct {
	ID    ID     `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

type loginResponse struct {
	Msg  string         `json:"msg"`
	User accountSummary `json:"user"`
}

// replies holds the user facing messages of one endpoint. key is the name of
// the message field in the response body.
type replies struct {
	key          string
	success      string
	missing      string
	conflictCode int
	conflict     string
	failure      string
}

var (
	createReplies = replies{
		key:          "msg",
		success:      "Usuario creado exitosamente",
		missing:      "Todos los campos son requeridos",
		conflictCode: http.StatusConflict,
		conflict:     "El email ya está registrado",
		failure:      "Error al crear usuario",
	}
	registerReplies = replies{
		key:          "message",
		success:      "Usuario registrado con éxito",
		missing:      "Todos los campos son requeridos",
		conflictCode: http.StatusBadRequest,
		conflict:     "El correo ya está registrado",
		failure:      "Error al registrar usuario",
	}
	listReplies   = replies{key: "msg", failure: "Error al obtener usuarios"}
	getReplies    = replies{key: "msg", failure: "Error al obtener usuario"}
	updateReplies = replies{
		key:          "msg",
		conflictCode: http.StatusConflict,
		conflict:     "El email ya está registrado",
		failure:      "Error al actualizar usuario",
	}
	deleteReplies = replies{key: "msg", success: "Usuario eliminado", failure: "Error al eliminar usuario"}
	loginReplies  = replies{
		key:     "msg",
		success: "Login exitoso",
		missing: "Email y password son requeridos",
		failure: "Error en el login",
	}
)

const (
	msgInvalidBody  = "Cuerpo de la solicitud inválido"
	msgNotFound     = "Usuario no encontrado"
	msgInvalidCreds = "Credenciales inválidas"
)

func HomeHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, welcomeMessage)
	})
}

// CreateAccountHandler serves POST /api/agrege.
func CreateAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req registerAccountRequest
		if err := decodeRequest(r.Body, &req); err != nil {
			encodeMessage(w, http.StatusBadRequest, createReplies.key, msgInvalidBody)
			return
		}

		id, err := svc.RegisterAccount(r.Context(), req)
		if err != nil {
			encodeError(w, r, err, createReplies)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/api/liste/%s", id))
		encodeResponse(w, http.StatusCreated, map[string]interface{}{
			createReplies.key: createReplies.success,
			"id":              id,
		})
	})
}

// RegisterUserHandler serves POST /api/register.
func RegisterUserHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := decodeRequest(r.Body, &req); err != nil {
			encodeMessage(w, http.StatusBadRequest, registerReplies.key, msgInvalidBody)
			return
		}

		id, err := svc.RegisterAccount(r.Context(), registerAccountRequest(req))
		if err != nil {
			encodeError(w, r, err, registerReplies)
			return
		}

		encodeResponse(w, http.StatusCreated, map[string]interface{}{
			registerReplies.key: registerReplies.success,
			"id":                id,
		})
	})
}

func ListAccountsHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accs, err := svc.ListAccounts(r.Context())
		if err != nil {
			encodeError(w, r, err, listReplies)
			return
		}

		res := make([]accountResponse, 0, len(accs))
		for _, acc := range accs {
			res = append(res, newAccountResponse(acc))
		}
		encodeResponse(w, http.StatusOK, res)
	})
}

func GetAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, err := svc.GetAccount(r.Context(), accountID(r))
		if err != nil {
			encodeError(w, r, err, getReplies)
			return
		}
		encodeResponse(w, http.StatusOK, newAccountResponse(acc))
	})
}

// UpdateAccountHandler serves PUT /api/actualice/:id. An id with no account
// behind it yields 200 with a null body.
func UpdateAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req updateAccountRequest
		if err := decodeRequest(r.Body, &req); err != nil {
			encodeMessage(w, http.StatusBadRequest, updateReplies.key, msgInvalidBody)
			return
		}

		id := accountID(r)
		acc, err := svc.UpdateAccount(r.Context(), id, req)
		if errors.Is(err, ErrNotFound) {
			LoggerFrom(r.Context()).Info("update of absent account", "account_id", id)
			encodeResponse(w, http.StatusOK, nil)
			return
		}
		if err != nil {
			encodeError(w, r, err, updateReplies)
			return
		}
		encodeResponse(w, http.StatusOK, newAccountResponse(acc))
	})
}

// DeleteAccountHandler serves DELETE /api/elimine/:id. It confirms the
// deletion whether or not an account existed.
func DeleteAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := accountID(r)
		deleted, err := svc.DeleteAccount(r.Context(), id)
		if err != nil {
			encodeError(w, r, err, deleteReplies)
			return
		}
		if !deleted {
			LoggerFrom(r.Context()).Info("delete of absent account", "account_id", id)
		}
		encodeMessage(w, http.StatusOK, deleteReplies.key, deleteReplies.success)
	})
}

func LoginHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req validateCredentialsRequest
		if err := decodeRequest(r.Body, &req); err != nil {
			encodeMessage(w, http.StatusBadRequest, loginReplies.key, msgInvalidBody)
			return
		}

		acc, err := svc.ValidateCredentials(r.Context(), req)
		if errors.Is(err, ErrInvalidCredentials) {
			LoggerFrom(r.Context()).Warn("login rejected", "email", RedactEmail(req.Email))
		}
		if err != nil {
			encodeError(w, r, err, loginReplies)
			return
		}

		encodeResponse(w, http.StatusOK, loginResponse{
			Msg:  loginReplies.success,
			User: accountSummary{ID: acc.ID, Name: acc.Name, Email: acc.Email},
		})
	})
}

func newAccountResponse(acc *Account) accountResponse {
	return accountResponse{
		ID:        acc.ID,
		Name:      acc.Name,
		Email:     acc.Email,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

func accountID(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("id")
}

func encodeError(w http.ResponseWriter, r *http.Request, err error, rp replies) {
	switch {
	case errors.Is(err, ErrMissingFields):
		encodeMessage(w, http.StatusBadRequest, rp.key, rp.missing)
	case errors.Is(err, ErrExistingEmail):
		encodeMessage(w, rp.conflictCode, rp.key, rp.conflict)
	case errors.Is(err, ErrNotFound):
		encodeMessage(w, http.StatusNotFound, rp.key, msgNotFound)
	case errors.Is(err, ErrInvalidCredentials):
		encodeMessage(w, http.StatusUnauthorized, rp.key, msgInvalidCreds)
	default:
		LoggerFrom(r.Context()).Error(rp.failure, "error", err)
		encodeResponse(w, http.StatusInternalServerError, map[string]interface{}{
			rp.key:  rp.failure,
			"error": err.Error(),
		})
	}
}

func encodeMessage(w http.ResponseWriter, code int, key, msg string) {
	encodeResponse(w, code, map[string]interface{}{key: msg})
}

func encodeResponse(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeRequest decodes a JSON body into v. An empty body leaves v untouched.
func decodeRequest(body io.ReadCloser, v interface{}) error {
	if body == nil {
		return nil
	}
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
