package service

import "fmt"

func shareInviteEmailTemplate(goalName, ownerEmail string, canEdit bool, appURL, appName string) (string, string) {
	access := "follow"
	if canEdit {
		access = "follow and update"
	}

	subject := fmt.Sprintf("%s shared a savings goal with you", ownerEmail)
	body := fmt.Sprintf(`Hi,

%s invited you to %s the goal "%s" on %s.

Sign in with this email address to see it:
%s

Best,
The %s Team`, ownerEmail, access, goalName, appName, appURL, appName)

	return subject, body
}
