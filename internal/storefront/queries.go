package storefront

const moneyFragment = `
fragment MoneyFragment on MoneyV2 {
  amount
  currencyCode
}`

const imageFragment = `
fragment ImageFragment on Image {
  id
  url
  altText
  width
  height
}`

const variantFragment = `
fragment ProductVariantFragment on ProductVariant {
  id
  title
  price { ...MoneyFragment }
  compareAtPrice { ...MoneyFragment }
  availableForSale
  quantityAvailable
  selectedOptions { name value }
  image { ...ImageFragment }
}`

const productFragment = `
fragment ProductFragment on Product {
  id
  handle
  title
  description
  descriptionHtml
  tags
  vendor
  productType
  createdAt
  updatedAt
  publishedAt
  availableForSale
  featuredImage { ...ImageFragment }
  images(first: 20) { edges { node { ...ImageFragment } } }
  variants(first: 250) { edges { node { ...ProductVariantFragment } } }
  priceRange {
    minVariantPrice { ...MoneyFragment }
    maxVariantPrice { ...MoneyFragment }
  }
  compareAtPriceRange {
    minVariantPrice { ...MoneyFragment }
    maxVariantPrice { ...MoneyFragment }
  }
  options { id name values }
  seo { title description }
}` + variantFragment + imageFragment + moneyFragment

const collectionFragment = `
fragment CollectionFragment on Collection {
  id
  handle
  title
  description
  descriptionHtml
  image { ...ImageFragment }
  seo { title description }
  updatedAt
}`

const cartFragment = `
fragment CartFragment on Cart {
  id
  checkoutUrl
  totalQuantity
  createdAt
  updatedAt
  lines(first: 250) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount { ...MoneyFragment }
          subtotalAmount { ...MoneyFragment }
          compareAtAmountPerQuantity { ...MoneyFragment }
        }
        merchandise {
          ... on ProductVariant {
            ...ProductVariantFragment
            product {
              id
              handle
              title
              featuredImage { ...ImageFragment }
            }
          }
        }
        attributes { key value }
      }
    }
  }
  cost {
    totalAmount { ...MoneyFragment }
    subtotalAmount { ...MoneyFragment }
    totalTaxAmount { ...MoneyFragment }
    totalDutyAmount { ...MoneyFragment }
  }
  buyerIdentity { countryCode email phone }
  attributes { key value }
  discountCodes { code applicable }
}` + variantFragment + imageFragment + moneyFragment

const cartMutationResult = `
    cart { ...CartFragment }
    userErrors { field message }`

const getCartQuery = `
query GetCart($id: ID!) {
  cart(id: $id) { ...CartFragment }
}` + cartFragment

const createCartMutation = `
mutation CreateCart($input: CartInput!) {
  cartCreate(input: $input) {` + cartMutationResult + `
  }
}` + cartFragment

const addLinesMutation = `
mutation AddToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {` + cartMutationResult + `
  }
}` + cartFragment

const updateLinesMutation = `
mutation UpdateCart($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {` + cartMutationResult + `
  }
}` + cartFragment

const removeLinesMutation = `
mutation RemoveFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {` + cartMutationResult + `
  }
}` + cartFragment

const updateBuyerIdentityMutation = `
mutation UpdateCartBuyerIdentity($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {` + cartMutationResult + `
  }
}` + cartFragment

const updateDiscountCodesMutation = `
mutation ApplyDiscountCode($cartId: ID!, $discountCodes: [String!]!) {
  cartDiscountCodesUpdate(cartId: $cartId, discountCodes: $discountCodes) {` + cartMutationResult + `
  }
}` + cartFragment

const pageInfoSelection = `
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor }`

const getProductsQuery = `
query GetProducts($first: Int!, $after: String, $query: String, $sortKey: ProductSortKeys, $reverse: Boolean) {
  products(first: $first, after: $after, query: $query, sortKey: $sortKey, reverse: $reverse) {
    edges { node { ...ProductFragment } }` + pageInfoSelection + `
  }
}` + productFragment

const getProductQuery = `
query GetProduct($handle: String!) {
  product(handle: $handle) { ...ProductFragment }
}` + productFragment

const getProductRecommendationsQuery = `
query GetProductRecommendations($productId: ID!, $intent: ProductRecommendationIntent) {
  productRecommendations(productId: $productId, intent: $intent) { ...ProductFragment }
}` + productFragment

const searchProductsQuery = `
query SearchProducts($query: String!, $first: Int!, $after: String, $sortKey: SearchSortKeys, $reverse: Boolean) {
  search(query: $query, first: $first, after: $after, sortKey: $sortKey, reverse: $reverse, types: [PRODUCT]) {
    edges { node { ... on Product { ...ProductFragment } } }` + pageInfoSelection + `
  }
}` + productFragment

const getCollectionsQuery = `
query GetCollections($first: Int!, $after: String) {
  collections(first: $first, after: $after) {
    edges { node { ...CollectionFragment } }` + pageInfoSelection + `
  }
}` + collectionFragment + imageFragment

const getCollectionProductsQuery = `
query GetCollectionProducts($handle: String!, $first: Int!, $after: String, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
  collection(handle: $handle) {
    ...CollectionFragment
    products(first: $first, after: $after, sortKey: $sortKey, reverse: $reverse) {
      edges { node { ...ProductFragment } }
    }
  }
}` + collectionFragment + productFragment

const getShopQuery = `
query GetShopInfo {
  shop {
    name
    description
    primaryDomain { url host }
    brand {
      logo { image { ...ImageFragment } }
      squareLogo { image { ...ImageFragment } }
    }
    paymentSettings {
      acceptedCardBrands
      countryCode
      currencyCode
      supportedDigitalWallets
    }
  }
}` + imageFragment
