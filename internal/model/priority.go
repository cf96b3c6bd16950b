package model

// DeviceCatalog is the fixed set of items a requester can pick on the intake
// form. Selections outside the catalog are rejected.
var DeviceCatalog = []string{
	"Fones de ouvido",
	"Teclado",
	"Mouse",
	"Notebook",
	"Bateria do notebook",
	"Monitor",
	"Upgrade de hardware",
	"Instalação de software",
	"Manutenção preventiva",
	"Suporte técnico remoto",
	"Configuração de rede",
}

func InCatalog(device string) bool {
	for _, d := range DeviceCatalog {
		if d == device {
			return true
		}
	}
	return false
}

// devicePriority maps catalog items to the priority they force. Items that
// block work outright (no working machine) are Urgente; degraded-but-working
// setups are Alta. Anything absent from the table is Normal.
var devicePriority = map[string]Priority{
	"Notebook":             PriorityUrgent,
	"Bateria do notebook":  PriorityUrgent,
	"Monitor":              PriorityHigh,
	"Upgrade de hardware":  PriorityHigh,
	"Configuração de rede": PriorityHigh,
}

var priorityRank = map[Priority]int{
	PriorityNormal: 0,
	PriorityHigh:   1,
	PriorityUrgent: 2,
}

// DerivePriority returns the highest priority forced by any of the selected
// devices, defaulting to Normal.
func DerivePriority(devices []string) Priority {
	out := PriorityNormal
	for _, d := range devices {
		if p, ok := devicePriority[d]; ok && priorityRank[p] > priorityRank[out] {
			out = p
		}
	}
	return out
}
