package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	xclient "github.com/anatolykoptev/go-xclient"
)

type env struct {
	client  *xclient.Client
	session *xclient.Session
	out     *terminal
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commandOrder = []string{"login", "logout", "whoami", "feed", "post", "profile", "follow", "unfollow"}

var commands = map[string]command{
	"login":    {"login <credential>", "exchange an identity-provider credential for a session", runLogin},
	"logout":   {"logout [--yes]", "clear the stored session after confirmation", runLogout},
	"whoami":   {"whoami", "show the signed-in user", runWhoami},
	"feed":     {"feed", "list all tweets", runFeed},
	"post":     {"post <text> [--image url]", "publish a tweet", runPost},
	"profile":  {"profile <id>", "show a user's profile", runProfile},
	"follow":   {"follow <id>", "follow a user", runFollow},
	"unfollow": {"unfollow <id> [--yes]", "unfollow a user after confirmation", runUnfollow},
}

func runLogin(ctx context.Context, e *env, args []string) error {
	var credential string
	if len(args) > 0 {
		credential = args[0]
	}
	if _, err := e.session.Login(ctx, credential); err != nil {
		return err
	}
	if u := e.session.CurrentUser(); u != nil {
		e.out.Println("Signed in as " + e.out.name(u.DisplayName()))
	}
	return nil
}

func runLogout(ctx context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("logout", pflag.ContinueOnError)
	yes := flagSet.BoolP("yes", "y", false, "skip the confirmation prompt")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	dialog := xclient.NewLogoutDialog(e.session)
	dialog.Request()
	if !*yes && !e.out.confirm("Are you sure you want to log out?") {
		dialog.Cancel()
		return nil
	}
	_, err := dialog.Confirm(ctx)
	return err
}

func runWhoami(_ context.Context, e *env, _ []string) error {
	u := e.session.CurrentUser()
	if u == nil {
		e.out.Println(e.out.dim("not signed in"))
		return nil
	}
	e.out.printUser(u)
	return nil
}

func runFeed(ctx context.Context, e *env, _ []string) error {
	feed := xclient.NewFeed(e.client)
	feed.Load(ctx)
	if feed.Err() != nil {
		e.out.Error(msgFeedFailed)
	}
	e.out.printFeed(feed.Tweets())
	return nil
}

func runPost(ctx context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("post", pflag.ContinueOnError)
	image := flagSet.String("image", "", "attach an image URL")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	feed := xclient.NewFeed(e.client)
	composer := xclient.NewComposer(e.client, feed)
	composer.SetContent(strings.Join(flagSet.Args(), " "))
	composer.SetImage(*image)
	cmd := composer.Submit(ctx)
	if err := cmd.Wait(ctx); err != nil {
		return err
	}
	if id := cmd.TweetID(); id != "" {
		e.out.Println(e.out.dim("id " + id))
	}
	e.out.printFeed(feed.Tweets())
	return nil
}

func runProfile(ctx context.Context, e *env, args []string) error {
	id, err := requireArg(args, "user id")
	if err != nil {
		return err
	}
	p, err := xclient.LoadProfile(ctx, e.session, id)
	if err != nil {
		return err
	}
	e.out.printProfile(p)
	return nil
}

func runFollow(ctx context.Context, e *env, args []string) error {
	target, err := lookupTarget(ctx, e, args)
	if err != nil {
		return err
	}
	return xclient.NewRelationships(e.session).Follow(ctx, target)
}

func runUnfollow(ctx context.Context, e *env, args []string) error {
	flagSet := pflag.NewFlagSet("unfollow", pflag.ContinueOnError)
	yes := flagSet.BoolP("yes", "y", false, "skip the confirmation prompt")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	target, err := lookupTarget(ctx, e, flagSet.Args())
	if err != nil {
		return err
	}

	dialog := xclient.NewUnfollowDialog(xclient.NewRelationships(e.session), target)
	dialog.Request()
	if !*yes && !e.out.confirm(fmt.Sprintf("Unfollow %s?", target.DisplayName())) {
		dialog.Cancel()
		return nil
	}
	_, err = dialog.Confirm(ctx)
	return err
}

// lookupTarget resolves the user behind args[0] so toasts can name them.
func lookupTarget(ctx context.Context, e *env, args []string) (*xclient.User, error) {
	id, err := requireArg(args, "user id")
	if err != nil {
		return nil, err
	}
	return e.client.GetUserByID(ctx, id)
}
