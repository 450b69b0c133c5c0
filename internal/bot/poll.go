package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/EspanolesRP/multasbot/internal/dgateway"
)

// poll — одна активная votación. Голоса считаем множеством userID по
// событиям реакций (у шлюза нет кэша реакций, как у discord.js).
type poll struct {
	mu      sync.Mutex
	code    string
	minimum int
	roleID  string
	channel string
	voters  map[string]struct{}
	opened  bool
}

// vote учитывает голос и говорит, достигнут ли порог ровно сейчас.
// После открытия повторных срабатываний не бывает.
func (p *poll) vote(userID string) (count int, reached bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opened {
		return len(p.voters), false
	}
	p.voters[userID] = struct{}{}
	if len(p.voters) >= p.minimum {
		p.opened = true
		return len(p.voters), true
	}
	return len(p.voters), false
}

func (p *poll) unvote(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.opened {
		delete(p.voters, userID)
	}
}

// ---------- /votacion ----------
func (b *MultasBot) cmdVotacion(i *dgateway.Interaction) error {
	code := i.Data.StringOption("codigo")
	minimum, ok := i.Data.IntOption("minimo")
	if !ok || minimum < 1 {
		return b.respond(i, errorEmbed("❌ Votación Inválida", "El mínimo de votos debe ser mayor que cero."), true)
	}
	roleID := i.Data.StringOption("rol")

	embed := dgateway.Embed{
		Title: "🎮 Votación de Apertura 🔓",
		Description: fmt.Sprintf(
			"🌟 **¿Listo para una aventura épica en el roleplay?**\n"+
				"¡Vota ahora y forma parte de la experiencia más emocionante en __**Españoles RP**__!\n\n"+
				"⚡ **Se necesitan mínimo %d ✅ votos** para abrir el servidor\n\n"+
				"🔑 **Código de acceso:** `%s`", minimum, code),
		Color:     colorTeal,
		Footer:    &dgateway.EmbedFooter{Text: "👆 Reacciona con ✅ para votar a favor de la apertura"},
		Timestamp: now3339(),
	}

	data := &dgateway.InteractionResponseData{Embeds: []dgateway.Embed{embed}}
	if roleID != "" {
		data.Content = fmt.Sprintf("||Ping <@&%s>||", roleID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := b.dg.RespondInteraction(ctx, i, &dgateway.InteractionResponse{
		Type: dgateway.ResponseChannelMessage,
		Data: data,
	}); err != nil {
		return err
	}

	// id сообщения нужен для подсчёта реакций
	msg, err := b.dg.OriginalResponse(ctx, i)
	if err != nil {
		return err
	}
	if err := b.dg.CreateReaction(ctx, i.ChannelID, msg.ID, "✅"); err != nil {
		log.Println("[poll] self-react:", err)
	}

	b.pmu.Lock()
	b.polls[msg.ID] = &poll{
		code:    code,
		minimum: minimum,
		roleID:  roleID,
		channel: i.ChannelID,
		voters:  map[string]struct{}{},
	}
	b.pmu.Unlock()

	log.Printf("[poll] %s: started, need %d votes", code, minimum)
	return nil
}

func (b *MultasBot) handleReaction(e *dgateway.ReactionEvent, added bool) {
	if e.Emoji.Name != "✅" {
		return
	}
	if e.UserID == b.dg.Me().ID {
		return
	}

	b.pmu.Lock()
	p := b.polls[e.MessageID]
	b.pmu.Unlock()
	if p == nil {
		return
	}

	if !added {
		p.unvote(e.UserID)
		return
	}

	count, reached := p.vote(e.UserID)
	log.Printf("[poll] %s: %d/%d", p.code, count, p.minimum)
	if !reached {
		return
	}

	b.announceOpen(p)

	b.pmu.Lock()
	delete(b.polls, e.MessageID)
	b.pmu.Unlock()
}

func (b *MultasBot) announceOpen(p *poll) {
	embed := dgateway.Embed{
		Title: "🎉 ¡SERVIDOR ABIERTO! 🔓",
		Description: fmt.Sprintf(
			"🎮 **¡El servidor está oficialmente abierto!**\n\n"+
				"✨ Únete ahora y vive una experiencia increíble de roleplay\n"+
				"🚀 No te pierdas esta oportunidad única\n\n"+
				"🔑 **Código:** `%s`", p.code),
		Color:     colorGreen,
		Footer:    &dgateway.EmbedFooter{Text: "¡Disfruta tu experiencia en Españoles RP!"},
		Timestamp: now3339(),
	}

	payload := &dgateway.MessagePayload{Embeds: []dgateway.Embed{embed}}
	if p.roleID != "" {
		payload.Content = fmt.Sprintf("|| <@&%s> ||", p.roleID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := b.dg.CreateMessage(ctx, p.channel, payload); err != nil {
		log.Println("[poll] announce:", err)
	}
}
