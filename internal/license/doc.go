// Package license decides whether a license key grants a DeepResearch subscription.
//
// Checker is the injected entitlement authority. Two are provided:
//
//   - DemoAuthority accepts the redemption codes SUMO-1001 to SUMO-1500
//     (trimmed, case-insensitive) and, unless disabled, development keys
//     starting with DEEP- whose raw length exceeds 8. It waits 800ms by
//     default to mimic a remote check.
//   - LemonSqueezy posts the key to the LemonSqueezy license validation API.
package license
