package dto

// ImportRowError error de una fila del CSV (la importación continúa).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResultDTO resultado de POST /api/ads/import.
type ImportResultDTO struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}
