package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrMalformedRecord indica un registro del feed cuyo precio o cantidad
	// no se puede interpretar bajo las reglas de normalización.
	ErrMalformedRecord = errors.New("registro del feed malformado")

	// ErrDuplicateCode indica un código repetido en el feed cuando la
	// política de duplicados exige rechazarlos.
	ErrDuplicateCode = errors.New("código duplicado en el feed")

	// ErrRequestTimeout indica que una petición al marketplace superó el
	// tiempo de espera. Se reporta de forma distinta a un fallo de conexión.
	ErrRequestTimeout = errors.New("tiempo de espera agotado")

	// ErrConnection indica un fallo de red al alcanzar el marketplace
	// (DNS, dial, conexión rechazada o cortada).
	ErrConnection = errors.New("error de conexión")

	// ErrEmptyCatalog indica que la paginación no avanzó: una página sin
	// elementos que tampoco cumple la condición de término.
	ErrEmptyCatalog = errors.New("paginación de catálogo sin avance")

	ErrInvalidInput = errors.New("entrada inválida")
)
