package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"bamboobot/pkg/logx"
)

var (
	manageMessages = int64(discordgo.PermissionManageMessages)
	manageChannels = int64(discordgo.PermissionManageChannels)
	minInterval    = float64(1)
	maxInterval    = float64(168)
	minCount       = float64(1)
	maxCount       = float64(100)
)

// commandDefs declares every slash command the bot serves. Names and
// option labels are user-facing and stay in Korean.
func commandDefs() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "위키",
			Description: "위키피디아에서 검색합니다",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "검색어",
				Description: "검색할 내용",
				Required:    true,
			}},
		},
		{
			Name:        "나무위키",
			Description: "나무위키에서 검색합니다",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "검색어",
				Description: "검색할 내용",
				Required:    true,
			}},
		},
		{
			Name:        "도움말",
			Description: "봇 사용법을 보여줍니다",
		},
		{
			Name:                     "청소",
			Description:              "메시지를 삭제합니다 (관리자 전용)",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "전체삭제",
					Description: "14일 이내 모든 메시지 삭제",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "개수",
					Description: "삭제할 메시지 개수 (1-100, 기본값: 100)",
					MinValue:    &minCount,
					MaxValue:    maxCount,
				},
			},
		},
		{
			Name:                     "자동청소",
			Description:              "자동 메시지 청소를 설정합니다 (관리자 전용)",
			DefaultMemberPermissions: &manageMessages,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "설정",
					Description: "자동청소를 설정합니다",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "채널",
							Description:  "자동청소할 채널",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
							Required:     true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "간격",
							Description: "청소 간격 (시간 단위)",
							MinValue:    &minInterval,
							MaxValue:    maxInterval,
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "해제",
					Description: "자동청소를 해제합니다",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "채널",
						Description:  "자동청소를 해제할 채널",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						Required:     true,
					}},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "목록",
					Description: "자동청소 설정 목록을 확인합니다",
				},
			},
		},
		{
			Name:                     "디씨주소",
			Description:              "익명 메시지가 올라갈 채널을 설정합니다 (관리자 전용)",
			DefaultMemberPermissions: &manageChannels,
			Options: []*discordgo.ApplicationCommandOption{{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "채널",
				Description:  "대나무숲 채널",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				Required:     true,
			}},
		},
		{
			Name:        "유동",
			Description: "익명으로 대나무숲에 메시지를 전송합니다",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "내용",
				Description: "전송할 메시지 내용",
				Required:    true,
			}},
		},
		{
			Name:        "고백",
			Description: "특정 유저에게 익명으로 메시지를 전송합니다",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "대상",
					Description: "메시지를 받을 유저",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "내용",
					Description: "전송할 메시지 내용",
					Required:    true,
				},
			},
		},
		{
			Name:        "캘린더",
			Description: "구글 캘린더 연동 및 일정 알림",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "연동",
					Description: "구글 캘린더 연동을 시작합니다",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "인증",
					Description: "발급받은 인증 코드를 입력합니다",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "코드",
						Description: "구글에서 발급받은 인증 코드",
						Required:    true,
					}},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "해제",
					Description: "캘린더 연동을 해제합니다",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "알림",
					Description: "매일 지정 시간에 일정 알림을 받습니다",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "시간",
							Description: "알림 시간 (HH:mm, 예: 09:00)",
							Required:    true,
						},
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "채널",
							Description:  "알림을 받을 채널 (미지정 시 DM)",
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "알림끄기",
					Description: "일정 알림을 끕니다",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "일정",
					Description: "일정을 조회합니다",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "날짜",
						Description: "오늘/내일/모레 또는 YYYY-MM-DD (기본: 오늘)",
					}},
				},
			},
		},
	}
}

// RegisterCommands bulk-overwrites the global application commands so the
// served set always matches commandDefs exactly.
func (a *Adapter) RegisterCommands(ctx context.Context) error {
	if a.appID == "" {
		return fmt.Errorf("register commands: gateway not connected")
	}
	defs := commandDefs()
	if _, err := a.sess.ApplicationCommandBulkOverwrite(a.appID, "", defs, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	a.log.Info("slash commands registered", logx.Int("count", len(defs)))
	return nil
}
