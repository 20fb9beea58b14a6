package ports

import "github.com/disgoorg/snowflake/v2"

// UserInfo contains display information about a guild member.
type UserInfo struct {
	DisplayName string
	AvatarURL   string
}

// UserInfoProvider looks up guild member display information.
type UserInfoProvider interface {
	GetUserInfo(guildID, userID snowflake.ID) (*UserInfo, error)
}
