// Package storelens extracts structured brand intelligence from Shopify
// storefront HTML without a platform API. It recovers products, policies,
// FAQs, contacts and social handles through a cascade of heuristic
// extractors, and discovers, validates and analyzes competitor stores
// with the same extraction engine.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package storelens
