package testkit

import (
	"errors"
	"sync"
)

type SentInvitation struct {
	To, InviterName, PlanTitle, Token string
}

type SentCode struct {
	To, Code string
}

type SentWarikan struct {
	To, PlanTitle string
	Share        int64
}

// FakeMailer records every message. Set Fail to make sends return an error.
type FakeMailer struct {
	mu          sync.Mutex
	Fail        bool
	Invitations []SentInvitation
	Codes       []SentCode
	Warikan     []SentWarikan
}

var ErrMailDown = errors.New("smtp unavailable")

func (f *FakeMailer) SendInvitationMail(to, inviterName, planTitle, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return ErrMailDown
	}
	f.Invitations = append(f.Invitations, SentInvitation{To: to, InviterName: inviterName, PlanTitle: planTitle, Token: token})
	return nil
}

func (f *FakeMailer) SendVerificationCode(to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return ErrMailDown
	}
	f.Codes = append(f.Codes, SentCode{To: to, Code: code})
	return nil
}

func (f *FakeMailer) SendWarikanNotice(to, nickname, planTitle string, share, total int64, members int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return ErrMailDown
	}
	f.Warikan = append(f.Warikan, SentWarikan{To: to, PlanTitle: planTitle, Share: share})
	return nil
}

func (f *FakeMailer) SendMailToNotifyUser(to, subject, body, ctaText, ctaURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return ErrMailDown
	}
	return nil
}
