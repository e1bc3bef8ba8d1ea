package outreach

import "hiring/sourcing-service/internal/model"

// DefaultTemplates is the built-in catalogue used when the backend has no
// templates configured. Every group exists in both languages.
func DefaultTemplates() []model.OutreachTemplate {
	tpls := []model.OutreachTemplate{
		{
			ID: "intro_en", GroupID: "intro", Label: "Introduction", Language: LangEN,
			Body: "Hi {first_name},\n\n" +
				"I came across your profile ({headline}) and was impressed by your work on {role}. " +
				"I'm {sender_name} from {company}. We are building {topic} infrastructure " +
				"and I think your background would be a great fit.\n\n" +
				"Would you be open to a short call this week?\n\nBest,\n{sender_name}",
		},
		{
			ID: "intro_kr", GroupID: "intro", Label: "소개", Language: LangKR,
			Body: "안녕하세요 {name}님,\n\n" +
				"{headline} 프로필을 보고 연락드립니다. {role} 관련 경험이 인상적이었습니다. " +
				"저는 {company}의 {sender_name}입니다. 저희는 {topic} 인프라를 만들고 있으며 " +
				"{name}님의 경험이 잘 맞을 것 같습니다.\n\n" +
				"이번 주에 잠시 통화 가능하실까요?\n\n감사합니다.\n{sender_name} 드림",
		},
		{
			ID: "follow_up_en", GroupID: "follow_up", Label: "Follow-up", Language: LangEN,
			Body: "Hi {first_name},\n\n" +
				"Just following up on my previous note about {topic} roles at {company}. " +
				"Happy to share more details whenever convenient.\n\nBest,\n{sender_name}",
		},
		{
			ID: "follow_up_kr", GroupID: "follow_up", Label: "후속 연락", Language: LangKR,
			Body: "안녕하세요 {name}님,\n\n" +
				"{company}의 {topic} 포지션 관련하여 지난번 메시지에 이어 다시 연락드립니다. " +
				"편하실 때 자세히 말씀드리겠습니다.\n\n감사합니다.\n{sender_name} 드림",
		},
		{
			ID: "open_to_work_en", GroupID: "open_to_work", Label: "Open to work", Language: LangEN,
			Body: "Hi {first_name},\n\n" +
				"I noticed you're open to new opportunities. {company} is hiring engineers with experience in {role}" +
				" and I'd love to tell you more.\n\nBest,\n{sender_name}\n{company}",
		},
		{
			ID: "open_to_work_kr", GroupID: "open_to_work", Label: "구직 중", Language: LangKR,
			Body: "안녕하세요 {name}님,\n\n" +
				"새로운 기회를 찾고 계신 것을 보고 연락드립니다. {company}에서 {role} 경험이 있는 엔지니어를 채용하고 있습니다." +
				"\n\n감사합니다.\n{company} {sender_name} 드림",
		},
	}
	for i := range tpls {
		tpls[i].Placeholders = Placeholders(tpls[i].Body)
	}
	return tpls
}
