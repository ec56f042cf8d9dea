package xclient

import "fmt"

// OperationKind distinguishes reads from writes.
type OperationKind int

const (
	Query OperationKind = iota
	Mutation
)

// Operation is a named GraphQL document.
type Operation struct {
	Name     string
	Kind     OperationKind
	Document string
	// Auth marks operations that are pointless without a session token.
	Auth bool
}

const userFields = `
    id
    firstName
    lastName
    email
    profileImageURL
    followers { id firstName lastName }
    following { id firstName lastName }
    tweets {
      id
      content
      imageURL
      author { id firstName lastName profileImageURL }
    }`

// Operations maps operation names to their documents.
var Operations = map[string]Operation{
	"GetCurrentUser": {
		Name: "GetCurrentUser", Kind: Query, Auth: true,
		Document: `query GetCurrentUser {
  getCurrentUser {` + userFields + `
  }
}`,
	},
	"GetUserById": {
		Name: "GetUserById", Kind: Query,
		Document: `query GetUserById($id: ID!) {
  getUserById(id: $id) {` + userFields + `
  }
}`,
	},
	"GetAllTweets": {
		Name: "GetAllTweets", Kind: Query,
		Document: `query GetAllTweets {
  getAllTweets {
    id
    content
    imageURL
    author { id firstName lastName profileImageURL }
  }
}`,
	},
	"VerifyGoogleToken": {
		Name: "VerifyGoogleToken", Kind: Query,
		Document: `query VerifyGoogleToken($token: String!) {
  verifyGoogleToken(token: $token)
}`,
	},
	"CreateTweet": {
		Name: "CreateTweet", Kind: Mutation, Auth: true,
		Document: `mutation CreateTweet($payload: CreateTweetData!) {
  createTweet(payload: $payload) { id }
}`,
	},
	"FollowUser": {
		Name: "FollowUser", Kind: Mutation, Auth: true,
		Document: `mutation FollowUser($to: ID!) {
  followUser(to: $to)
}`,
	},
	"UnfollowUser": {
		Name: "UnfollowUser", Kind: Mutation, Auth: true,
		Document: `mutation UnfollowUser($to: ID!) {
  unfollowUser(to: $to)
}`,
	},
}

// lookupOperation returns the named operation or an error if unknown.
func lookupOperation(name string) (Operation, error) {
	op, ok := Operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("unknown operation: %s", name)
	}
	return op, nil
}
