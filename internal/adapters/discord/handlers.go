package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"bamboobot/internal/kit"
	"bamboobot/internal/lookup"
	"bamboobot/internal/services/calendar"
	"bamboobot/internal/services/cleanup"
	"bamboobot/internal/services/cooldown"
	"bamboobot/internal/services/notify"
	"bamboobot/internal/services/scheduler"
	"bamboobot/internal/storage"
	"bamboobot/pkg/logx"
)

const (
	colorWiki = 0xFFFFFF
	colorNamu = 0x00A495
	colorBot  = 0x5865F2

	extractLimit   = 500
	handlerTimeout = 30 * time.Second
)

// Deps are the collaborators behind the command layer. Handlers validate
// input, then delegate; they hold no state of their own.
type Deps struct {
	Log        logx.Logger
	Adapter    *Adapter
	Wiki       *lookup.WikiClient
	Namu       *lookup.NamuClient
	Store      *storage.Store
	CleanJobs  *scheduler.Service
	NotifyJobs *scheduler.Service
	Cleaner    *cleanup.Service
	Notifier   *notify.Service
	Cooldowns  *cooldown.Tracker
	Auth       *calendar.Auth
	Events     calendar.EventSource
	Loc        *time.Location
	Timezone   string

	AnonCooldown time.Duration
}

type Handlers struct {
	Deps
}

func NewHandlers(d Deps) *Handlers {
	if d.Log.IsZero() {
		d.Log = logx.Nop()
	}
	if d.Loc == nil {
		d.Loc = time.Local
	}
	if d.AnonCooldown <= 0 {
		d.AnonCooldown = time.Minute
	}
	return &Handlers{Deps: d}
}

// Bind attaches the interaction router to the gateway session. Call before
// Adapter.Start so no interaction arrives unrouted.
func (h *Handlers) Bind() {
	h.Adapter.sess.AddHandler(h.onInteraction)
}

func (h *Handlers) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	h.Log.Debug("command received",
		logx.String("command", data.Name), logx.String("user", interactionUserID(i)))

	switch data.Name {
	case "위키":
		h.handleWiki(ctx, s, i, data)
	case "나무위키":
		h.handleNamu(ctx, s, i, data)
	case "도움말":
		h.handleHelp(s, i)
	case "청소":
		h.handleClean(ctx, s, i, data)
	case "자동청소":
		h.handleAutoClean(s, i, data)
	case "디씨주소":
		h.handleAnonChannel(s, i, data)
	case "유동":
		h.handleAnonPost(ctx, s, i, data)
	case "고백":
		h.handleAnonDM(ctx, s, i, data)
	case "캘린더":
		h.handleCalendar(ctx, s, i, data)
	}
}

func (h *Handlers) handleWiki(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	query := optString(data.Options, "검색어")
	if strings.TrimSpace(query) == "" {
		h.respond(s, i, "검색어를 입력해주세요.", true)
		return
	}
	if err := h.deferReply(s, i, false); err != nil {
		return
	}

	sum, err := h.Wiki.Summary(ctx, query)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			h.editReply(s, i, "위키피디아에서 해당 문서를 찾을 수 없습니다.")
			return
		}
		h.Log.Warn("wiki lookup failed", logx.String("query", query), logx.Err(err))
		h.editReply(s, i, "위키피디아 검색 중 오류가 발생했습니다.")
		return
	}

	desc := sum.Extract
	if desc == "" {
		desc = "내용 없음"
	} else if len([]rune(desc)) > extractLimit {
		desc = string([]rune(desc)[:extractLimit]) + "..."
	}
	embed := &discordgo.MessageEmbed{
		Color:       colorWiki,
		Title:       "📚 " + sum.Title,
		URL:         sum.PageURL,
		Description: desc,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Wikipedia"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if sum.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: sum.ThumbnailURL}
	}
	h.editReplyEmbed(s, i, embed)
}

func (h *Handlers) handleNamu(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	query := optString(data.Options, "검색어")
	if strings.TrimSpace(query) == "" {
		h.respond(s, i, "검색어를 입력해주세요.", true)
		return
	}
	if err := h.deferReply(s, i, false); err != nil {
		return
	}

	exists, err := h.Namu.Exists(ctx, query)
	if err != nil {
		h.Log.Warn("namu probe failed", logx.String("query", query), logx.Err(err))
		exists = false
	}

	desc := fmt.Sprintf("문서가 없을 수 있습니다. [검색해보기](%s)", h.Namu.SearchURL(query))
	if exists {
		desc = fmt.Sprintf("[나무위키에서 %q 문서 보기](%s)", query, h.Namu.DocumentURL(query))
	}
	h.editReplyEmbed(s, i, &discordgo.MessageEmbed{
		Color:       colorNamu,
		Title:       "🌳 " + query,
		URL:         h.Namu.DocumentURL(query),
		Description: desc,
		Footer:      &discordgo.MessageEmbedFooter{Text: "나무위키"},
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

func (h *Handlers) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Color:       colorBot,
		Title:       "📖 봇 사용법",
		Description: "검색, 청소, 대나무숲, 캘린더 알림 봇입니다.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/위키 [검색어]", Value: "위키피디아에서 검색합니다", Inline: true},
			{Name: "/나무위키 [검색어]", Value: "나무위키에서 검색합니다", Inline: true},
			{Name: "/청소 [개수]", Value: "메시지 삭제 (관리자)", Inline: true},
			{Name: "/자동청소 설정", Value: "주기적 자동 삭제 (관리자)", Inline: true},
			{Name: "/유동 [내용]", Value: "대나무숲에 익명 메시지", Inline: true},
			{Name: "/고백 [대상] [내용]", Value: "익명 DM 전송", Inline: true},
			{Name: "/캘린더 연동", Value: "구글 캘린더 연동", Inline: true},
			{Name: "/캘린더 알림 [시간]", Value: "매일 일정 알림", Inline: true},
			{Name: "/캘린더 일정 [날짜]", Value: "일정 조회", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Utility Bot"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	h.respondEmbed(s, i, embed, false)
}

func (h *Handlers) handleClean(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	all := optBool(data.Options, "전체삭제")
	amount := int(optInt(data.Options, "개수"))
	if amount <= 0 {
		amount = cleanup.BatchSize
	}
	maxCount := amount
	if all {
		maxCount = 0
	}
	if err := h.deferReply(s, i, true); err != nil {
		return
	}

	total, err := h.Cleaner.Sweep(ctx, i.ChannelID, maxCount)
	if err != nil {
		h.Log.Warn("manual clean failed",
			logx.String("channel", i.ChannelID), logx.Err(err))
		h.editReply(s, i, "메시지 삭제 중 오류가 발생했습니다.")
		return
	}
	h.editReply(s, i, fmt.Sprintf("%d개의 메시지를 삭제했습니다.\n(14일 이상 된 메시지는 삭제할 수 없습니다)", total))
}

func (h *Handlers) handleAutoClean(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	switch sub.Name {
	case "설정":
		ch := optChannel(s, sub.Options, "채널")
		hours := int(optInt(sub.Options, "간격"))
		if ch == nil || hours < 1 || hours > 168 {
			h.respond(s, i, "채널과 1~168 사이의 간격(시간)을 지정해주세요.", true)
			return
		}

		entries := storage.Load[storage.AutoCleanEntry](h.Store, storage.NSAutoClean)
		entries[ch.ID] = storage.AutoCleanEntry{
			ChannelName:   ch.Name,
			GuildID:       i.GuildID,
			IntervalHours: hours,
			CreatedAt:     time.Now(),
		}
		if err := storage.Save(h.Store, storage.NSAutoClean, entries); err != nil {
			h.Log.Error("failed saving auto clean entry", logx.Err(err))
			h.respond(s, i, "설정 저장 중 오류가 발생했습니다.", true)
			return
		}
		if err := h.CleanJobs.Register(ch.ID, scheduler.Interval(hours), h.Cleaner.Run); err != nil {
			h.Log.Error("failed arming auto clean job",
				logx.String("channel", ch.ID), logx.Err(err))
			h.respond(s, i, "타이머 등록 중 오류가 발생했습니다.", true)
			return
		}
		h.respond(s, i, fmt.Sprintf("<#%s> 채널에 %d시간마다 자동청소가 설정되었습니다.\n지금 바로 청소를 실행하려면 `/청소` 명령어를 사용하세요.", ch.ID, hours), true)

	case "해제":
		ch := optChannel(s, sub.Options, "채널")
		if ch == nil {
			h.respond(s, i, "채널을 지정해주세요.", true)
			return
		}
		entries := storage.Load[storage.AutoCleanEntry](h.Store, storage.NSAutoClean)
		if _, ok := entries[ch.ID]; !ok {
			h.respond(s, i, fmt.Sprintf("<#%s> 채널에는 자동청소가 설정되어 있지 않습니다.", ch.ID), true)
			return
		}
		h.CleanJobs.Cancel(ch.ID)
		delete(entries, ch.ID)
		if err := storage.Save(h.Store, storage.NSAutoClean, entries); err != nil {
			h.Log.Error("failed saving auto clean entry", logx.Err(err))
		}
		h.respond(s, i, fmt.Sprintf("<#%s> 채널의 자동청소가 해제되었습니다.", ch.ID), true)

	case "목록":
		entries := storage.Load[storage.AutoCleanEntry](h.Store, storage.NSAutoClean)
		type row struct {
			channelID string
			hours     int
		}
		var rows []row
		for id, e := range entries {
			if e.GuildID == i.GuildID {
				rows = append(rows, row{id, e.IntervalHours})
			}
		}
		if len(rows) == 0 {
			h.respond(s, i, "설정된 자동청소가 없습니다.", true)
			return
		}
		sort.Slice(rows, func(a, b int) bool { return rows[a].channelID < rows[b].channelID })

		lines := make([]string, 0, len(rows))
		for _, r := range rows {
			lines = append(lines, fmt.Sprintf("<#%s> - **%d시간**마다", r.channelID, r.hours))
		}
		h.respondEmbed(s, i, &discordgo.MessageEmbed{
			Color:       colorBot,
			Title:       "🔄 자동청소 목록",
			Description: strings.Join(lines, "\n"),
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("총 %d개 채널", len(rows))},
			Timestamp:   time.Now().Format(time.RFC3339),
		}, true)
	}
}

func (h *Handlers) handleAnonChannel(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	ch := optChannel(s, data.Options, "채널")
	if ch == nil {
		h.respond(s, i, "채널을 지정해주세요.", true)
		return
	}
	settings := storage.Load[storage.AnonEntry](h.Store, storage.NSAnonSettings)
	settings[i.GuildID] = storage.AnonEntry{
		ChannelID:   ch.ID,
		ChannelName: ch.Name,
		CreatedAt:   time.Now(),
	}
	if err := storage.Save(h.Store, storage.NSAnonSettings, settings); err != nil {
		h.Log.Error("failed saving anon channel", logx.Err(err))
		h.respond(s, i, "설정 저장 중 오류가 발생했습니다.", true)
		return
	}
	h.respond(s, i, fmt.Sprintf("<#%s> 채널이 대나무숲으로 설정되었습니다.", ch.ID), true)
}

func (h *Handlers) handleAnonPost(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	content := strings.TrimSpace(optString(data.Options, "내용"))
	if content == "" {
		h.respond(s, i, "전송할 내용을 입력해주세요.", true)
		return
	}

	settings := storage.Load[storage.AnonEntry](h.Store, storage.NSAnonSettings)
	anon, ok := settings[i.GuildID]
	if !ok {
		h.respond(s, i, "대나무숲 채널이 설정되지 않았습니다. 관리자에게 `/디씨주소` 설정을 요청하세요.", true)
		return
	}

	userID := interactionUserID(i)
	key := "anon:" + i.GuildID + ":" + userID
	if remaining, active := h.Cooldowns.Check(key); active {
		h.respond(s, i, fmt.Sprintf("잠시 후 다시 시도해주세요. (%d초 남음)", int(remaining.Seconds())+1), true)
		return
	}

	if err := h.Adapter.SendEmbed(ctx, anon.ChannelID, &discordgo.MessageEmbed{
		Color:       colorBot,
		Description: content,
		Footer:      &discordgo.MessageEmbedFooter{Text: "🎍 익명"},
		Timestamp:   time.Now().Format(time.RFC3339),
	}); err != nil {
		h.Log.Warn("anon post failed",
			logx.String("guild", i.GuildID), logx.String("channel", anon.ChannelID), logx.Err(err))
		h.respond(s, i, "메시지 전송에 실패했습니다. 채널 설정을 확인해주세요.", true)
		return
	}
	h.Cooldowns.Arm(key, h.AnonCooldown)
	h.respond(s, i, "대나무숲에 전송되었습니다.", true)
}

func (h *Handlers) handleAnonDM(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	target := optUser(s, data.Options, "대상")
	content := strings.TrimSpace(optString(data.Options, "내용"))
	if target == nil || content == "" {
		h.respond(s, i, "대상과 내용을 입력해주세요.", true)
		return
	}
	if target.Bot {
		h.respond(s, i, "봇에게는 전송할 수 없습니다.", true)
		return
	}

	userID := interactionUserID(i)
	key := "dm:" + userID
	if remaining, active := h.Cooldowns.Check(key); active {
		h.respond(s, i, fmt.Sprintf("잠시 후 다시 시도해주세요. (%d초 남음)", int(remaining.Seconds())+1), true)
		return
	}

	msg := "💌 익명의 메시지가 도착했습니다.\n\n" + content
	if err := h.Adapter.SendMessage(ctx, kit.ToUser(target.ID), msg); err != nil {
		h.Log.Warn("anon dm failed", logx.String("target", target.ID), logx.Err(err))
		h.respond(s, i, "전송에 실패했습니다. 대상이 DM을 차단했을 수 있습니다.", true)
		return
	}
	h.Cooldowns.Arm(key, h.AnonCooldown)
	h.respond(s, i, "익명 메시지를 전송했습니다.", true)
}

func (h *Handlers) handleCalendar(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if h.Auth == nil {
		h.respond(s, i, "캘린더 기능이 설정되지 않았습니다.", true)
		return
	}
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	userID := interactionUserID(i)

	switch sub.Name {
	case "연동":
		h.respond(s, i, fmt.Sprintf("아래 주소에서 구글 계정을 인증한 뒤, 발급된 코드를 `/캘린더 인증` 명령어로 입력해주세요.\n%s", h.Auth.AuthURL()), true)

	case "인증":
		code := strings.TrimSpace(optString(sub.Options, "코드"))
		if code == "" {
			h.respond(s, i, "인증 코드를 입력해주세요.", true)
			return
		}
		tok, err := h.Auth.Exchange(ctx, code)
		if err != nil {
			h.Log.Warn("code exchange failed", logx.String("user", userID), logx.Err(err))
			h.respond(s, i, "인증에 실패했습니다. 코드를 다시 확인해주세요.", true)
			return
		}
		tokens := storage.Load[storage.CalendarToken](h.Store, storage.NSCalendarTokens)
		tokens[userID] = tok
		if err := storage.Save(h.Store, storage.NSCalendarTokens, tokens); err != nil {
			h.Log.Error("failed saving calendar token", logx.Err(err))
			h.respond(s, i, "저장 중 오류가 발생했습니다.", true)
			return
		}
		h.respond(s, i, "구글 캘린더가 연동되었습니다. `/캘린더 알림` 으로 매일 알림을 설정할 수 있습니다.", true)

	case "해제":
		tokens := storage.Load[storage.CalendarToken](h.Store, storage.NSCalendarTokens)
		if _, ok := tokens[userID]; !ok {
			h.respond(s, i, "연동된 캘린더가 없습니다.", true)
			return
		}
		h.NotifyJobs.Cancel(userID)
		delete(tokens, userID)
		if err := storage.Save(h.Store, storage.NSCalendarTokens, tokens); err != nil {
			h.Log.Error("failed deleting calendar token", logx.Err(err))
		}
		settings := storage.Load[storage.CalendarSettings](h.Store, storage.NSCalendarSettings)
		if _, ok := settings[userID]; ok {
			delete(settings, userID)
			if err := storage.Save(h.Store, storage.NSCalendarSettings, settings); err != nil {
				h.Log.Error("failed deleting calendar settings", logx.Err(err))
			}
		}
		h.respond(s, i, "캘린더 연동이 해제되었습니다.", true)

	case "알림":
		hhmm := strings.TrimSpace(optString(sub.Options, "시간"))
		if _, _, err := scheduler.ParseTimeOfDay(hhmm); err != nil {
			h.respond(s, i, "시간은 HH:mm 형식으로 입력해주세요. (예: 09:00)", true)
			return
		}
		tokens := storage.Load[storage.CalendarToken](h.Store, storage.NSCalendarTokens)
		if _, ok := tokens[userID]; !ok {
			h.respond(s, i, "먼저 `/캘린더 연동` 으로 구글 캘린더를 연동해주세요.", true)
			return
		}

		channelID := ""
		if ch := optChannel(s, sub.Options, "채널"); ch != nil {
			channelID = ch.ID
		}
		settings := storage.Load[storage.CalendarSettings](h.Store, storage.NSCalendarSettings)
		settings[userID] = storage.CalendarSettings{
			NotificationTime: hhmm,
			ChannelID:        channelID,
			GuildID:          i.GuildID,
			Enabled:          true,
			CreatedAt:        time.Now(),
		}
		if err := storage.Save(h.Store, storage.NSCalendarSettings, settings); err != nil {
			h.Log.Error("failed saving calendar settings", logx.Err(err))
			h.respond(s, i, "저장 중 오류가 발생했습니다.", true)
			return
		}
		if err := h.NotifyJobs.Register(userID, scheduler.DailyAt(hhmm, h.Timezone), h.Notifier.Run); err != nil {
			h.Log.Error("failed arming notification job",
				logx.String("user", userID), logx.Err(err))
			h.respond(s, i, "알림 등록 중 오류가 발생했습니다.", true)
			return
		}
		where := "DM으로"
		if channelID != "" {
			where = fmt.Sprintf("<#%s> 채널로", channelID)
		}
		h.respond(s, i, fmt.Sprintf("매일 %s에 %s 일정 알림을 보내드립니다.", hhmm, where), true)

	case "알림끄기":
		settings := storage.Load[storage.CalendarSettings](h.Store, storage.NSCalendarSettings)
		cfg, ok := settings[userID]
		if !ok || !cfg.Enabled {
			h.respond(s, i, "설정된 알림이 없습니다.", true)
			return
		}
		h.NotifyJobs.Cancel(userID)
		cfg.Enabled = false
		settings[userID] = cfg
		if err := storage.Save(h.Store, storage.NSCalendarSettings, settings); err != nil {
			h.Log.Error("failed saving calendar settings", logx.Err(err))
		}
		h.respond(s, i, "일정 알림을 껐습니다.", true)

	case "일정":
		day, err := calendar.ParseDate(optString(sub.Options, "날짜"), time.Now().In(h.Loc))
		if err != nil {
			h.respond(s, i, "날짜는 오늘/내일/모레 또는 YYYY-MM-DD 형식으로 입력해주세요.", true)
			return
		}
		tokens := storage.Load[storage.CalendarToken](h.Store, storage.NSCalendarTokens)
		tok, ok := tokens[userID]
		if !ok {
			h.respond(s, i, "먼저 `/캘린더 연동` 으로 구글 캘린더를 연동해주세요.", true)
			return
		}
		if err := h.deferReply(s, i, true); err != nil {
			return
		}

		valid, refreshed, err := h.Auth.EnsureValid(ctx, tok)
		if err != nil {
			if errors.Is(err, calendar.ErrCredentialExpired) {
				h.editReply(s, i, "인증이 만료되었습니다. `/캘린더 연동` 으로 다시 연동해주세요.")
				return
			}
			h.Log.Warn("credential check failed", logx.String("user", userID), logx.Err(err))
			h.editReply(s, i, "캘린더 조회 중 오류가 발생했습니다.")
			return
		}
		if refreshed {
			tokens[userID] = valid
			if err := storage.Save(h.Store, storage.NSCalendarTokens, tokens); err != nil {
				h.Log.Warn("failed persisting refreshed credential", logx.Err(err))
			}
		}

		events, err := h.Events.ListEventsForDay(ctx, valid, day)
		if err != nil {
			h.Log.Warn("event fetch failed", logx.String("user", userID), logx.Err(err))
			h.editReply(s, i, "캘린더 조회 중 오류가 발생했습니다.")
			return
		}
		h.editReply(s, i, fmt.Sprintf("📅 %s 일정\n%s", day.Format("2006-01-02"), calendar.FormatAgenda(events)))
	}
}

// response helpers; failures are logged and swallowed, an interaction we
// cannot answer is not worth crashing a handler over.

func (h *Handlers) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		h.Log.Warn("interaction respond failed", logx.Err(err))
	}
}

func (h *Handlers) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		h.Log.Warn("interaction respond failed", logx.Err(err))
	}
}

func (h *Handlers) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		h.Log.Warn("interaction defer failed", logx.Err(err))
	}
	return err
}

func (h *Handlers) editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		h.Log.Warn("interaction edit failed", logx.Err(err))
	}
}

func (h *Handlers) editReplyEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		h.Log.Warn("interaction edit failed", logx.Err(err))
	}
}

// option helpers

func findOpt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range opts {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func optString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o := findOpt(opts, name); o != nil {
		return o.StringValue()
	}
	return ""
}

func optInt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if o := findOpt(opts, name); o != nil {
		return o.IntValue()
	}
	return 0
}

func optBool(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if o := findOpt(opts, name); o != nil {
		return o.BoolValue()
	}
	return false
}

func optChannel(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.Channel {
	if o := findOpt(opts, name); o != nil {
		return o.ChannelValue(s)
	}
	return nil
}

func optUser(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	if o := findOpt(opts, name); o != nil {
		return o.UserValue(s)
	}
	return nil
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
