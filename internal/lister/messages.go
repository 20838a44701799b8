package lister

import (
	"errors"
	"net/http"

	"github.com/Project-Sylos/DriveLister/internal/drive"
	"github.com/Project-Sylos/DriveLister/internal/logging"
)

// User-facing status lines
const (
	SetupMessage = "⚙️ Para ver os ficheiros, é necessário configurar a integração com o Google Drive. Consulte GOOGLE_DRIVE_SETUP.md para instruções."
	ErrorPrefix  = "❌ Erro ao carregar ficheiros do Google Drive."

	notFoundHint   = "A pasta não foi encontrada ou não é pública."
	forbiddenHint  = "Permissão negada. Verifique se a chave API está correta e se a pasta é pública."
	badRequestHint = "Configuração inválida. Verifique o ID da pasta e a chave API."
)

// ErrorMessage builds the status line for a failed top-level listing
func ErrorMessage(err error) string {
	var reqErr *drive.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.StatusCode {
		case http.StatusNotFound:
			return ErrorPrefix + " " + notFoundHint
		case http.StatusForbidden:
			return ErrorPrefix + " " + forbiddenHint
		case http.StatusBadRequest:
			return ErrorPrefix + " " + badRequestHint
		}
	}
	return ErrorPrefix + " " + logging.Redact(err.Error())
}
