package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DocNoPrefix prefijo de las órdenes de venta.
const DocNoPrefix = "SO-"

// docNoSeqWidth ancho mínimo del consecutivo diario.
const docNoSeqWidth = 3

// DocNoDayPrefix construye SO-{año budista}{MM}{DD} para la fecha del documento.
func DocNoDayPrefix(docDate time.Time) string {
	t := docDate.In(Location)
	return fmt.Sprintf("%s%04d%02d%02d", DocNoPrefix, BuddhistYear(t), int(t.Month()), t.Day())
}

// FormatDocNo concatena el prefijo del día y el consecutivo con ceros a la izquierda.
func FormatDocNo(dayPrefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", dayPrefix, docNoSeqWidth, seq)
}

// SequenceOf devuelve el consecutivo de un doc_no automático del día: el prefijo seguido
// solo de dígitos. Los números cargados a mano con otro formato devuelven ok=false.
func SequenceOf(docNo, dayPrefix string) (seq int, ok bool) {
	if !strings.HasPrefix(docNo, dayPrefix) {
		return 0, false
	}
	suffix := docNo[len(dayPrefix):]
	if suffix == "" {
		return 0, false
	}
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextSequence calcula el consecutivo siguiente a partir del último doc_no automático del día.
// Sin último documento o con uno fuera del formato prefijo+dígitos devuelve 1.
func NextSequence(lastDocNo, dayPrefix string) int {
	n, ok := SequenceOf(lastDocNo, dayPrefix)
	if !ok {
		return 1
	}
	return n + 1
}
