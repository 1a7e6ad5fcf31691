// Package email sends transactional messages.
//
// EmailSender is the single seam services depend on. Two implementations ship with the
// package: the Postmark client used in production and DevSender, which writes every message
// to a directory as an .html body plus a .json envelope so links can be opened locally.
// NewSender picks between them from Config.
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "user@example.com",
//		Subject:  "Verify your email",
//		BodyHTML: body,
//		Tag:      "email-verification",
//	})
//
// Message bodies are templ components rendered with templates.Render.
package email
