package model

// SettingDailyTransferLimit caps the sum of TRANSFER_OUT amounts per account per calendar day.
const SettingDailyTransferLimit = "daily_transfer_limit"
