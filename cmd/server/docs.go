// Package main Teamdeck Console API
//
//	@title						Teamdeck Console API
//	@version					1.0
//	@description				Browser-facing API of the Teamdeck console. Sessions ride on the backend cookie.
//
//	@contact.name				Teamdeck Support
//	@contact.email				support@teamdeck.io
//
//	@license.name				Proprietary
//
//	@host						localhost:3001
//	@BasePath					/api
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						bp_access_token
//	@description				Session cookie issued by the backend.
//
//	@tag.name					Session
//	@tag.description			Session probe and logout
//
//	@tag.name					Auth
//	@tag.description			Login, signup, verification and password reset screens
//
//	@tag.name					Teams
//	@tag.description			Active team and team settings
//
//	@tag.name					Inbox
//	@tag.description			Notifications and invitations
//
//	@tag.name					Account
//	@tag.description			Profile, email, password and preferences
//
//	@tag.name					Feedback
//	@tag.description			Product feedback
//
//	@tag.name					Dashboard
//	@tag.description			Dashboard overview
package main
