package form

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Alert is the transient notice shown above the form.
type Alert struct {
	Message  string
	Severity Severity
}

const (
	msgLoadFailed = "No se pudieron cargar los datos del hotel. Intenta de nuevo."
	msgCreated    = "Hotel creado exitosamente!"
	msgUpdated    = "Hotel actualizado exitosamente!"
	msgFixErrors  = "Por favor, corrige los siguientes errores:"
	msgSaveFailed = "Error al guardar el hotel. Intenta de nuevo."
)
