package entity

import "time"

// RUC y nombre del consumidor final (venta sin identificar al cliente).
// Solo se usa a través del literal explícito "Sin RUC" del flujo de caja,
// nunca como sustitución silenciosa de un RUC en blanco.
const (
	ConsumidorFinalRUC  = "44444401-7"
	ConsumidorFinalName = "CONSUMIDOR FINAL"
	SinRUCLiteral       = "Sin RUC"
)

// Customer representa un cliente identificado por su RUC (Paraguay).
type Customer struct {
	ID        string
	RUC       string // clave única
	Name      string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConsumidorFinal devuelve el registro fijo de cliente ocasional.
func ConsumidorFinal() *Customer {
	return &Customer{
		RUC:    ConsumidorFinalRUC,
		Name:   ConsumidorFinalName,
		Active: true,
	}
}
