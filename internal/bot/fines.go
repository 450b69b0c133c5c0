package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EspanolesRP/multasbot/internal/dgateway"
	"github.com/EspanolesRP/multasbot/internal/ledger"
)

// цвета эмбедов (как в discord.js-версии сервера)
const (
	colorTeal  = 0x00AE86
	colorRed   = 0xFF0000
	colorGreen = 0x00FF00
	colorBlue  = 0x0099FF
)

func now3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func errorEmbed(title, desc string) dgateway.Embed {
	return dgateway.Embed{Title: title, Description: desc, Color: colorRed}
}

// respond — ответ на interaction одним эмбедом
func (b *MultasBot) respond(i *dgateway.Interaction, embed dgateway.Embed, ephemeral bool) error {
	data := &dgateway.InteractionResponseData{Embeds: []dgateway.Embed{embed}}
	if ephemeral {
		data.Flags = dgateway.MessageFlagEphemeral
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.dg.RespondInteraction(ctx, i, &dgateway.InteractionResponse{
		Type: dgateway.ResponseChannelMessage,
		Data: data,
	})
}

// ---------- /poner_multa ----------
func (b *MultasBot) cmdPonerMulta(i *dgateway.Interaction) error {
	if !i.Member.HasPermission(dgateway.PermManageMessages) {
		return b.respond(i, errorEmbed("❌ Sin Permisos", "No tienes permisos para usar este comando."), true)
	}

	userID := i.Data.StringOption("usuario")
	amount, _ := i.Data.IntOption("cantidad")
	reason := i.Data.StringOption("razon")

	fine, err := b.ledger.Issue(userID, amount, reason)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return b.respond(i, errorEmbed("❌ Cantidad Inválida", "La cantidad de la multa debe ser mayor que cero."), true)
	case errors.Is(err, ledger.ErrEmptyReason):
		return b.respond(i, errorEmbed("❌ Razón Inválida", "La razón de la multa no puede estar vacía."), true)
	case err != nil:
		return err
	}

	return b.respond(i, dgateway.Embed{
		Title:       "💸 Multa Impuesta",
		Description: fmt.Sprintf("Se ha puesto una multa a <@%s>", userID),
		Color:       colorRed,
		Fields: []dgateway.EmbedField{
			{Name: "💰 Cantidad", Value: fmt.Sprintf("%d€", fine.Amount), Inline: true},
			{Name: "📋 Razón", Value: fine.Reason, Inline: true},
			{Name: "🆔 ID Multa", Value: fmt.Sprintf("#%d", fine.ID), Inline: true},
		},
		Timestamp: now3339(),
	}, false)
}

// ---------- /quitar_multa ----------
func (b *MultasBot) cmdQuitarMulta(i *dgateway.Interaction) error {
	if !i.Member.HasPermission(dgateway.PermManageMessages) {
		return b.respond(i, errorEmbed("❌ Sin Permisos", "No tienes permisos para usar este comando."), true)
	}

	userID := i.Data.StringOption("usuario")
	fineID, _ := i.Data.IntOption("id_multa")

	fine, err := b.ledger.Revoke(userID, fineID)
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		return b.respond(i, errorEmbed("❌ Sin Multas", "Este usuario no tiene multas."), true)
	case errors.Is(err, ledger.ErrFineNotFound):
		return b.respond(i, errorEmbed("❌ Multa No Encontrada", "No se encontró una multa con ese ID."), true)
	case err != nil:
		return err
	}

	return b.respond(i, dgateway.Embed{
		Title:       "✅ Multa Eliminada",
		Description: fmt.Sprintf("Se ha eliminado la multa #%d de <@%s>", fine.ID, userID),
		Color:       colorGreen,
		Fields: []dgateway.EmbedField{
			{Name: "💰 Cantidad", Value: fmt.Sprintf("%d€", fine.Amount), Inline: true},
			{Name: "📋 Razón", Value: fine.Reason, Inline: true},
		},
		Timestamp: now3339(),
	}, false)
}

// ---------- /pagar_multa ----------
func (b *MultasBot) cmdPagarMulta(i *dgateway.Interaction) error {
	fineID, ok := i.Data.IntOption("id_multa")
	if !ok {
		return errors.New("pagar_multa: falta id_multa")
	}
	sender := i.Sender()
	if sender == nil || i.GuildID == "" {
		return b.respond(i, errorEmbed("❌ Error de Pago", "Este comando solo funciona dentro de un servidor."), true)
	}
	if b.pay == nil {
		return b.respond(i, errorEmbed("❌ Error de Pago", "La economía no está configurada."), true)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	fine, bal, err := b.pay.Pay(ctx, i.GuildID, sender.ID, fineID)
	if err != nil {
		return b.respondPayError(i, err)
	}

	debitsTotal.Inc()
	paymentsTotal.WithLabelValues("paid").Inc()

	return b.respond(i, dgateway.Embed{
		Title:       "✅ Multa Pagada",
		Description: fmt.Sprintf("Has pagado exitosamente la multa #%d", fine.ID),
		Color:       colorGreen,
		Fields: []dgateway.EmbedField{
			{Name: "💰 Cantidad", Value: fmt.Sprintf("%d€", fine.Amount), Inline: true},
			{Name: "📋 Razón", Value: fine.Reason, Inline: true},
			{Name: "💵 Dinero restante", Value: fmt.Sprintf("%d€", bal.Cash-fine.Amount), Inline: true},
		},
		Footer:    &dgateway.EmbedFooter{Text: "Pago procesado con UnbelievaBoat"},
		Timestamp: now3339(),
	}, false)
}

// разбор исходов оплаты: каждый режим отказа — своё сообщение и метрика
func (b *MultasBot) respondPayError(i *dgateway.Interaction, err error) error {
	var insufficient *ledger.InsufficientFundsError
	var unavailable *ledger.BalanceUnavailableError
	var debitFailed *ledger.DebitFailedError
	var persistErr *ledger.PostPaymentPersistError

	switch {
	case errors.Is(err, ledger.ErrFineNotFound):
		paymentsTotal.WithLabelValues("not_found").Inc()
		return b.respond(i, errorEmbed("❌ Multa No Encontrada", "No se encontró una multa pendiente con ese ID."), true)

	case errors.As(err, &insufficient):
		paymentsTotal.WithLabelValues("insufficient").Inc()
		return b.respond(i, dgateway.Embed{
			Title:       "💸 Dinero Insuficiente",
			Description: "No tienes suficiente dinero para pagar esta multa.",
			Color:       colorRed,
			Fields: []dgateway.EmbedField{
				{Name: "💰 Tu dinero", Value: fmt.Sprintf("%d€", insufficient.Available), Inline: true},
				{Name: "🏷️ Multa", Value: fmt.Sprintf("%d€", insufficient.Required), Inline: true},
				{Name: "❌ Faltan", Value: fmt.Sprintf("%d€", insufficient.Shortfall()), Inline: true},
			},
			Timestamp: now3339(),
		}, true)

	case errors.As(err, &persistErr):
		// деньги списаны, запись не прошла — в логи это уже упало
		// (SEVERE в Reconciler), пользователю честно говорим
		paymentsTotal.WithLabelValues("persist_failed").Inc()
		return b.respond(i, errorEmbed("⚠️ Pago Procesado",
			"El pago se procesó, pero no se pudo registrar. Avisa a un administrador."), true)

	case errors.As(err, &debitFailed):
		paymentsTotal.WithLabelValues("debit_failed").Inc()
	case errors.As(err, &unavailable):
		paymentsTotal.WithLabelValues("unavailable").Inc()
	default:
		paymentsTotal.WithLabelValues("error").Inc()
	}

	return b.respond(i, errorEmbed("❌ Error de Pago",
		"Hubo un error al procesar el pago. Inténtalo de nuevo más tarde."), true)
}

// ---------- /ver_multas ----------
func (b *MultasBot) cmdVerMultas(i *dgateway.Interaction) error {
	sender := i.Sender()
	target := i.Data.StringOption("usuario")
	self := target == "" || (sender != nil && target == sender.ID)
	if target == "" && sender != nil {
		target = sender.ID
	}

	fines := b.ledger.ListForUser(target)
	if len(fines) == 0 {
		desc := fmt.Sprintf("<@%s> no tiene multas.", target)
		if self {
			desc = "No tienes multas."
		}
		return b.respond(i, errorEmbed("❌ Sin Multas", desc), true)
	}

	return b.respond(i, multasEmbed(target, fines), false)
}

// multasEmbed собирает список мульт, разбитый на pendientes/pagadas,
// с сохранением порядка выписки.
func multasEmbed(userID string, fines []ledger.Fine) dgateway.Embed {
	var pending, paid []string
	for _, f := range fines {
		row := fmt.Sprintf("**#%d** - %d€ | %s | %s",
			f.ID, f.Amount, f.Reason, f.CreatedAt.Format("02/01/2006 15:04"))
		if f.Paid {
			paid = append(paid, row)
		} else {
			pending = append(pending, row)
		}
	}

	embed := dgateway.Embed{
		Title:       "📋 Multas",
		Description: fmt.Sprintf("Multas de <@%s>", userID),
		Color:       colorBlue,
		Timestamp:   now3339(),
	}
	if len(pending) > 0 {
		embed.Fields = append(embed.Fields, dgateway.EmbedField{
			Name: "❌ Pendientes", Value: strings.Join(pending, "\n"),
		})
	}
	if len(paid) > 0 {
		embed.Fields = append(embed.Fields, dgateway.EmbedField{
			Name: "✅ Pagadas", Value: strings.Join(paid, "\n"),
		})
	}
	return embed
}
