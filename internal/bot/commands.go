package bot

import (
	"log"

	"github.com/EspanolesRP/multasbot/internal/dgateway"
)

// полный набор слэш-команд бота; регистрируется bulk overwrite при READY
func slashCommands() []dgateway.ApplicationCommand {
	return []dgateway.ApplicationCommand{
		{
			Name:        "votacion",
			Description: "Crea una votación de apertura",
			Options: []dgateway.CommandOptionDef{
				{Type: dgateway.OptionString, Name: "codigo", Description: "Código de la apertura", Required: true},
				{Type: dgateway.OptionInteger, Name: "minimo", Description: "Cantidad mínima de votos necesarios", Required: true},
				{Type: dgateway.OptionRole, Name: "rol", Description: "Rol a mencionar (opcional)"},
			},
		},
		{
			Name:        "poner_multa",
			Description: "Pone una multa a un usuario",
			Options: []dgateway.CommandOptionDef{
				{Type: dgateway.OptionUser, Name: "usuario", Description: "Usuario a multar", Required: true},
				{Type: dgateway.OptionInteger, Name: "cantidad", Description: "Cantidad de la multa", Required: true},
				{Type: dgateway.OptionString, Name: "razon", Description: "Razón de la multa", Required: true},
			},
		},
		{
			Name:        "quitar_multa",
			Description: "Quita una multa de un usuario",
			Options: []dgateway.CommandOptionDef{
				{Type: dgateway.OptionUser, Name: "usuario", Description: "Usuario al que quitar la multa", Required: true},
				{Type: dgateway.OptionInteger, Name: "id_multa", Description: "ID de la multa a quitar", Required: true},
			},
		},
		{
			Name:        "pagar_multa",
			Description: "Paga una multa",
			Options: []dgateway.CommandOptionDef{
				{Type: dgateway.OptionInteger, Name: "id_multa", Description: "ID de la multa a pagar", Required: true},
			},
		},
		{
			Name:        "ver_multas",
			Description: "Ver multas de un usuario",
			Options: []dgateway.CommandOptionDef{
				{Type: dgateway.OptionUser, Name: "usuario", Description: "Usuario del que ver las multas (opcional)"},
			},
		},
	}
}

func (b *MultasBot) handleInteraction(i *dgateway.Interaction) {
	if i.Type != dgateway.InteractionTypeApplicationCommand || i.Data == nil {
		return
	}

	var err error
	switch i.Data.Name {
	case "votacion":
		err = b.cmdVotacion(i)
	case "poner_multa":
		err = b.cmdPonerMulta(i)
	case "quitar_multa":
		err = b.cmdQuitarMulta(i)
	case "pagar_multa":
		err = b.cmdPagarMulta(i)
	case "ver_multas":
		err = b.cmdVerMultas(i)
	default:
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		log.Printf("[cmd] %s: %v", i.Data.Name, err)
	}
	commandsTotal.WithLabelValues(i.Data.Name, outcome).Inc()
}
