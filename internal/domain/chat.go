package domain

import "time"

// ChatType — для кого ведётся диалог: для жителя или для дорожной службы
type ChatType string

const (
	ChatCitizen   ChatType = "citizen"
	ChatAuthority ChatType = "authority"
)

// ParseChatType: всё, что не authority, считаем citizen
func ParseChatType(s string) ChatType {
	if ChatType(s) == ChatAuthority {
		return ChatAuthority
	}
	return ChatCitizen
}

// ChatTypeFor — тип чата по роли пользователя
func ChatTypeFor(r Role) ChatType {
	if r == RoleAuthority {
		return ChatAuthority
	}
	return ChatCitizen
}

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ChatMessage — одно сообщение истории чата
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ChatType  ChatType  `json:"chatType"`
	Role      string    `json:"role"` // user / assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatResponses — заготовленные ответы демо-ассистента
var ChatResponses = map[string]string{
	"default":    "I can help you with traffic information for this city. You can ask about congestion levels, best routes, predicted traffic conditions, or traffic stability for specific areas.",
	"congestion": "Based on current data, the highest congestion is in Guindy (92 vehicles/km) and OMR (88 vehicles/km). T. Nagar also shows heavy traffic due to peak shopping hours. Lower congestion areas include ECR and Mylapore.",
	"route":      "For the best route, I'd recommend using Inner Ring Road which has a stability index of 85% and only 12% delay probability. While OMR is faster in distance, it currently has medium congestion with 35% delay risk.",
	"prediction": "Looking at the next 3 hours: Guindy and OMR will remain congested. T. Nagar should improve after 2 hours. Anna Nagar expects increased traffic in the next hour due to school dismissal times.",
	"stability":  "The most stable routes today are: ECR (92% stability), Mylapore (88%), and Inner Ring Road (85%). Avoid OMR and Guindy for reliability as they have stability indices below 30%.",
	"peak":       "Peak hours are typically 8-10 AM and 5-7 PM. Current highest impact areas during peaks: Guindy Industrial Zone, OMR IT Corridor, and T. Nagar Shopping District.",
	"weather":    "Weather conditions are clear today with no expected impact on traffic. During monsoon season, low-lying areas like Velachery and Adyar typically see increased congestion due to waterlogging.",
}
